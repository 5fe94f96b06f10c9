package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wippyai/witgen/internal/config"
	"github.com/wippyai/witgen/internal/driver"
	"github.com/wippyai/witgen/ir"
)

var worldsCmd = &cobra.Command{
	Use:   "worlds [flags] <wit-path>",
	Short: "List the worlds of a WIT package with their imports and exports",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorlds,
}

func init() {
	worldsCmd.Flags().Bool("json", false, "print the listing as JSON")
}

type worldInfo struct {
	Name    string   `json:"name"`
	Imports []string `json:"imports"`
	Exports []string `json:"exports"`
}

func runWorlds(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	res, err := driver.LoadIR(&config.Target{WIT: args[0]})
	if err != nil {
		return err
	}
	infos := describeWorlds(res)

	out := cmd.OutOrStdout()
	if asJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	printWorlds(out, infos)
	return nil
}

func describeWorlds(res *ir.Resolve) []worldInfo {
	infos := make([]worldInfo, len(res.Worlds))
	for i, w := range res.Worlds {
		infos[i] = worldInfo{
			Name:    w.QualifiedName(),
			Imports: entryNames(w.Imports),
			Exports: entryNames(w.Exports),
		}
	}
	return infos
}

func entryNames(entries []ir.WorldEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Item.(type) {
		case *ir.Function:
			names = append(names, "func "+e.Key)
		case ir.TypeRef:
			names = append(names, "type "+e.Key)
		default:
			names = append(names, "interface "+e.Key)
		}
	}
	return names
}

func printWorlds(w io.Writer, infos []worldInfo) {
	title := okLabel
	for _, info := range infos {
		title.Fprintln(w, info.Name)
		for _, name := range info.Imports {
			fmt.Fprintf(w, "  import %s\n", name)
		}
		for _, name := range info.Exports {
			fmt.Fprintf(w, "  export %s\n", name)
		}
	}
}
