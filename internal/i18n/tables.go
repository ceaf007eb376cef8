package i18n

var tables = map[Locale]map[Key]string{
	EN: {
		HeaderTitle:    "CONTROL PANEL",
		HeaderSubtitle: "ROSKOMNADZOR // FIREWALL_V.9.0",
		HeaderMonitor:  "NETWORK MONITORING ACTIVE",

		InputPlaceholder: "ENTER PROTOCOL NAME (E.G. TELEGRAM)...",
		InputButton:      "INJECT",
		InputSystem:      "System: Waiting for input...",
		InputLoading:     "RESOLVING...",
		InputResolveFail: "System Error: Could not resolve protocol.",

		CardActive:  "ACTIVE",
		CardBlocked: "BLOCKED",
		CardDelete:  "PURGE",

		StatusNoProtocols: "NO PROTOCOLS DETECTED",
		StatusOnline:      "System Status: ONLINE",
		StatusSecured:     "Secured by RKN-CORE",
		StatusLatency:     "Latency: 12ms",

		ModalTitle:      "PROTOCOL DELETION SEQUENCE",
		ModalStep1Title: "INITIALIZING PURGE...",
		ModalStep1Desc:  "Allocating server resources for permanent record expungement.",
		ModalStep2Title: "COMPLIANCE CHECK",
		ModalStep2Desc:  "Required by Federal Law 27-B regarding digital asset forfeiture.",
		ModalCheck1:     "I confirm that this action is irreversible and recorded.",
		ModalCheck2:     "I acknowledge that I am authorized to modify the firewall.",
		ModalCheck3:     "I accept full liability for any network instability.",
		ModalStep3Title: "SYNCHRONIZING...",
		ModalStep3Desc:  "Contacting Central Archives. Please wait for queue position.",
		ModalStep4Title: "FINAL AUTHORIZATION",
		ModalStep4Desc:  "Press and hold effectively (just click) to execute.",
		ModalCancel:     "ABORT",
		ModalNext:       "PROCEED",
		ModalConfirm:    "EXECUTE PURGE",
		ModalWait:       "WAIT...",

		LockdownBannerTitle:     "EMERGENCY LOCKDOWN ACTIVE",
		LockdownBannerDesc:      "Unauthorized reference to the regulator detected. Unblocking and purging are suspended.",
		LockdownTimer:           "LOCKDOWN ENDS IN",
		LockdownAlertTrigger:    "You typed the forbidden name. The firewall has locked itself for 15 minutes. This incident has been reported.",
		LockdownRestrictUnblock: "Lockdown in effect: blocked protocols cannot be unblocked until the timer expires.",
		LockdownWarningTitle:    "System Warning",
	},
	RU: {
		HeaderTitle:    "ПАНЕЛЬ УПРАВЛЕНИЯ",
		HeaderSubtitle: "РОСКОМНАДЗОР // FIREWALL_V.9.0",
		HeaderMonitor:  "МОНИТОРИНГ СЕТИ АКТИВЕН",

		InputPlaceholder: "ВВЕДИТЕ ИМЯ ПРОТОКОЛА (НАПР. TELEGRAM)...",
		InputButton:      "ВНЕДРИТЬ",
		InputSystem:      "Система: Ожидание ввода...",
		InputLoading:     "ОБРАБОТКА...",
		InputResolveFail: "Системная ошибка: не удалось определить протокол.",

		CardActive:  "АКТИВЕН",
		CardBlocked: "ЗАБЛОКИРОВАНО",
		CardDelete:  "УДАЛИТЬ",

		StatusNoProtocols: "ПРОТОКОЛЫ НЕ ОБНАРУЖЕНЫ",
		StatusOnline:      "Статус системы: ОНЛАЙН",
		StatusSecured:     "Защищено RKN-CORE",
		StatusLatency:     "Задержка: 12мс",

		ModalTitle:      "ПРОЦЕДУРА УДАЛЕНИЯ",
		ModalStep1Title: "ИНИЦИАЛИЗАЦИЯ...",
		ModalStep1Desc:  "Выделение ресурсов сервера для удаления записи из реестра.",
		ModalStep2Title: "ПРОВЕРКА СООТВЕТСТВИЯ",
		ModalStep2Desc:  "Требуется согласно ФЗ-27-Б об изъятии цифровых активов.",
		ModalCheck1:     "Я подтверждаю, что действие необратимо и заносится в лог.",
		ModalCheck2:     "Я подтверждаю наличие полномочий на изменение фаервола.",
		ModalCheck3:     "Я принимаю полную ответственность за нестабильность сети.",
		ModalStep3Title: "СИНХРОНИЗАЦИЯ...",
		ModalStep3Desc:  "Связь с Центральным Архивом. Ожидайте очереди.",
		ModalStep4Title: "ФИНАЛЬНАЯ АВТОРИЗАЦИЯ",
		ModalStep4Desc:  "Подтвердите выполнение операции.",
		ModalCancel:     "ОТМЕНА",
		ModalNext:       "ДАЛЕЕ",
		ModalConfirm:    "ВЫПОЛНИТЬ",
		ModalWait:       "ЖДИТЕ...",

		LockdownBannerTitle:     "РЕЖИМ ЧРЕЗВЫЧАЙНОЙ БЛОКИРОВКИ",
		LockdownBannerDesc:      "Обнаружено несанкционированное упоминание регулятора. Разблокировка и удаление приостановлены.",
		LockdownTimer:           "ДО СНЯТИЯ БЛОКИРОВКИ",
		LockdownAlertTrigger:    "Вы ввели запрещённое имя. Фаервол заблокирован на 15 минут. Инцидент передан куда следует.",
		LockdownRestrictUnblock: "Действует блокировка: заблокированные протоколы нельзя разблокировать до истечения таймера.",
		LockdownWarningTitle:    "Системное предупреждение",
	},
}
