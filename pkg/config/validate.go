package config

import (
	"fmt"
	"strings"
)

// ValidateFile loads a config file and returns a human-readable validation
// report along with whether the file is usable.
func ValidateFile(path string) (bool, string) {
	cfg, err := Load(path)
	if err != nil {
		return false, fmt.Sprintf("validation failed:\n%v", err)
	}

	var b strings.Builder
	b.WriteString("config syntax valid\n")
	fmt.Fprintf(&b, "source file exists: %s\n", cfg.Source)
	fmt.Fprintf(&b, "output prefix: %s\n", cfg.Output)
	fmt.Fprintf(&b, "%d color configuration(s)\n", len(cfg.Configs))

	for i := range cfg.Configs {
		cc := &cfg.Configs[i]
		fmt.Fprintf(&b, "\n[%s]\n", strings.ToUpper(cc.Color))

		if cc.Skip != "" {
			fmt.Fprintf(&b, "  using 'skip' shorthand: %s\n", cc.Skip)
		} else if cc.Include != "" {
			fmt.Fprintf(&b, "  using 'include' shorthand: %s\n", cc.Include)
		}
		if len(cc.Games) > 0 {
			fmt.Fprintf(&b, "  %d game(s) with detailed config\n", len(cc.Games))
		}

		removeCount, addCount := 0, 0
		for _, g := range cc.Games {
			removeCount += len(g.RemoveVariations)
			addCount += len(g.AddVariations)
		}
		if removeCount > 0 {
			fmt.Fprintf(&b, "  %d variation remove filter(s) defined\n", removeCount)
		}
		if addCount > 0 {
			fmt.Fprintf(&b, "  %d variation add filter(s) defined\n", addCount)
		}
		if len(cc.PlanComments) > 0 {
			fmt.Fprintf(&b, "  %d plan comment(s) to add\n", len(cc.PlanComments))
		}
	}

	b.WriteString("\nconfiguration is valid")
	return true, b.String()
}
