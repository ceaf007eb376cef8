package seed

// File is the top-level structure of the seed file.
//
//	applications:
//	  - name: Discord
//	    domain: discord.com
//	  - name: Instagram
//	    domain: https://www.instagram.com
//	    status: blocked
type File struct {
	Applications []Entry `yaml:"applications"`
}

// Entry is one pre-registered application. Entries are shown in file order.
type Entry struct {
	ID     string `yaml:"id,omitempty"`
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	Status string `yaml:"status,omitempty"`
}
