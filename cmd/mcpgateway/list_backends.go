package main

import "fmt"

// ListBackendsCmd prints every backend server name known to
// backend-servers.json along with its transport type and, for the stdio
// variant, the command it launches. It never dials a backend.
type ListBackendsCmd struct {
	BackendsPath string `long:"backends" description:"Path to backend-servers.json (default: platform config dir)"`
	GroupsPath   string `long:"groups" description:"Path to groups.json (default: platform config dir)"`
}

func (c *ListBackendsCmd) Execute(_ []string) error {
	cfg, err := loadConfig(c.BackendsPath, c.GroupsPath)
	if err != nil {
		return err
	}
	if len(cfg.backends) == 0 {
		fmt.Println("no backends configured")
		return nil
	}
	for name, b := range cfg.backends {
		if b.Command != "" {
			fmt.Printf("%s\t%s\t%s %v\n", name, b.Type, b.Command, b.Args)
		} else {
			fmt.Printf("%s\t%s\t%s\n", name, b.Type, b.URL)
		}
	}
	return nil
}
