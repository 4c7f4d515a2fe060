package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestOutputFlags(t *testing.T) {
	commands := map[string]*cobra.Command{
		"config show": configShowCmd,
		"requests ls": requestsLsCmd,
	}

	for name, cmd := range commands {
		for _, flag := range []string{"json", "yaml"} {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("%s: --%s not registered", name, flag)
			}
		}
	}
}
