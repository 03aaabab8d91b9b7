package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
)

// TformCmd implements the 'tform' command.
type TformCmd struct {
	Codes []string `arg:"" name:"code" help:"TFORM codes, e.g. 1E 16A 1PJ(20)"`
}

func (t *TformCmd) Run(g *Global, _ *CLI) error {
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	var invalid []string
	for _, code := range t.Codes {
		label, err := fitsmeta.ColumnFormat(code)
		if err != nil {
			invalid = append(invalid, code)
			fmt.Fprintf(tw, "%s\t<invalid>\n", code)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", code, label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(invalid) > 0 {
		return errors.ValidationError(fmt.Sprintf("%d unrecognized TFORM code(s)", len(invalid))).
			WithCause(fitsmeta.ErrUnknownFormatCode).
			WithContext("codes", invalid).
			Build()
	}
	return nil
}
