package i18n

// Key names one user-facing string.
type Key string

const (
	HeaderTitle    Key = "header.title"
	HeaderSubtitle Key = "header.subtitle"
	HeaderMonitor  Key = "header.monitor"

	InputPlaceholder Key = "input.placeholder"
	InputButton      Key = "input.button"
	InputSystem      Key = "input.system"
	InputLoading     Key = "input.loading"
	InputResolveFail Key = "input.resolve_failed"

	CardActive  Key = "card.active"
	CardBlocked Key = "card.blocked"
	CardDelete  Key = "card.delete"

	StatusNoProtocols Key = "status.no_protocols"
	StatusOnline      Key = "status.online"
	StatusSecured     Key = "status.secured"
	StatusLatency     Key = "status.latency"

	ModalTitle      Key = "modal.title"
	ModalStep1Title Key = "modal.step1_title"
	ModalStep1Desc  Key = "modal.step1_desc"
	ModalStep2Title Key = "modal.step2_title"
	ModalStep2Desc  Key = "modal.step2_desc"
	ModalCheck1     Key = "modal.check1"
	ModalCheck2     Key = "modal.check2"
	ModalCheck3     Key = "modal.check3"
	ModalStep3Title Key = "modal.step3_title"
	ModalStep3Desc  Key = "modal.step3_desc"
	ModalStep4Title Key = "modal.step4_title"
	ModalStep4Desc  Key = "modal.step4_desc"
	ModalCancel     Key = "modal.cancel"
	ModalNext       Key = "modal.next"
	ModalConfirm    Key = "modal.confirm"
	ModalWait       Key = "modal.wait"

	LockdownBannerTitle     Key = "lockdown.banner_title"
	LockdownBannerDesc      Key = "lockdown.banner_desc"
	LockdownTimer           Key = "lockdown.timer"
	LockdownAlertTrigger    Key = "lockdown.alert_trigger"
	LockdownRestrictUnblock Key = "lockdown.restrict_unblock"
	LockdownWarningTitle    Key = "lockdown.warning_title"
)

// Keys lists every key; each locale table must define all of them.
var Keys = []Key{
	HeaderTitle, HeaderSubtitle, HeaderMonitor,
	InputPlaceholder, InputButton, InputSystem, InputLoading, InputResolveFail,
	CardActive, CardBlocked, CardDelete,
	StatusNoProtocols, StatusOnline, StatusSecured, StatusLatency,
	ModalTitle, ModalStep1Title, ModalStep1Desc, ModalStep2Title, ModalStep2Desc,
	ModalCheck1, ModalCheck2, ModalCheck3, ModalStep3Title, ModalStep3Desc,
	ModalStep4Title, ModalStep4Desc, ModalCancel, ModalNext, ModalConfirm, ModalWait,
	LockdownBannerTitle, LockdownBannerDesc, LockdownTimer, LockdownAlertTrigger,
	LockdownRestrictUnblock, LockdownWarningTitle,
}
