package main

import "fmt"

// ListGroupsCmd prints every group name known to groups.json along with the
// counts of tools/resources/prompts it bundles. It never connects to a
// backend; it only reads the configuration documents already loaded for
// `serve`.
type ListGroupsCmd struct {
	BackendsPath string `long:"backends" description:"Path to backend-servers.json (default: platform config dir)"`
	GroupsPath   string `long:"groups" description:"Path to groups.json (default: platform config dir)"`
}

func (c *ListGroupsCmd) Execute(_ []string) error {
	cfg, err := loadConfig(c.BackendsPath, c.GroupsPath)
	if err != nil {
		return err
	}
	if len(cfg.groups) == 0 {
		fmt.Println("no groups configured")
		return nil
	}
	for name, g := range cfg.groups {
		fmt.Printf("%s\ttools=%d\tresources=%d\tprompts=%d\n", name, len(g.Tools), len(g.Resources), len(g.Prompts))
	}
	return nil
}
