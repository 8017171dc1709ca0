package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmehdipour/econnect-gateway/internal/app"
	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/spf13/cobra"
)

var (
	callFields         []string
	callFiles          []string
	callAttrs          []string
	callWithAttributes bool

	// callOptions lets tests swap the transport.
	callOptions []econnect.Option
)

var callCmd = &cobra.Command{
	Use:   "call <operation>",
	Short: "Invoke one remote operation and print the envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, ok := econnect.Lookup(name); !ok {
			return fmt.Errorf("unknown operation %q (see `operations`)", name)
		}

		fields, err := parseCallArgs(callFields, callFiles, os.ReadFile)
		if err != nil {
			return err
		}
		attrs, err := parseAttrs(callAttrs)
		if err != nil {
			return err
		}

		cfg, err := app.Load(cfgPath)
		if err != nil {
			return err
		}
		gw, err := app.NewGateway(cmd.Context(), cfg, nil, callOptions...)
		if err != nil {
			return err
		}

		env := gw.Call(cmd.Context(), name, fields, callWithAttributes || len(attrs) > 0, attrs)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return err
		}
		if env.Failed() {
			return fmt.Errorf("%s failed (%s)", name, env.Kind())
		}
		return nil
	},
}

func init() {
	callCmd.Flags().StringArrayVar(&callFields, "field", nil, "request field name=value (repeat a list field to add items)")
	callCmd.Flags().StringArrayVar(&callFiles, "file", nil, "bytes field name=path, read from disk")
	callCmd.Flags().StringArrayVar(&callAttrs, "attr", nil, "customer attribute name=value (implies --with-attributes)")
	callCmd.Flags().BoolVar(&callWithAttributes, "with-attributes", false, "send the customer attribute block")
}

func splitKV(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return k, v, nil
}

// parseCallArgs turns --field and --file flags into gateway arguments.
// A repeated --field name collects its values into a list.
func parseCallArgs(fields, files []string, readFile func(string) ([]byte, error)) (econnect.Args, error) {
	args := econnect.Args{}
	for _, f := range fields {
		k, v, err := splitKV(f)
		if err != nil {
			return nil, fmt.Errorf("--field: %w", err)
		}
		switch prev := args[k].(type) {
		case nil:
			args[k] = v
		case string:
			args[k] = []string{prev, v}
		case []string:
			args[k] = append(prev, v)
		}
	}
	for _, f := range files {
		k, path, err := splitKV(f)
		if err != nil {
			return nil, fmt.Errorf("--file: %w", err)
		}
		b, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("--file %s: %w", k, err)
		}
		args[k] = b
	}
	return args, nil
}

func parseAttrs(attrs []string) (econnect.CustomerAttributes, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := econnect.CustomerAttributes{}
	for _, a := range attrs {
		k, v, err := splitKV(a)
		if err != nil {
			return nil, fmt.Errorf("--attr: %w", err)
		}
		out[k] = v
	}
	return out, nil
}
