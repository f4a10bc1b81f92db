package fits

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SummaryRow struct {
	Index      int    `yaml:"index"`
	Name       string `yaml:"name"`
	Version    int    `yaml:"version"`
	Kind       string `yaml:"type"`
	Cards      int    `yaml:"cards"`
	Dimensions []int  `yaml:"dimensions,flow"`
	Format     string `yaml:"format,omitempty"`
}

// Summary describes the structure of a FITS container.
type Summary struct {
	Filename string       `yaml:"filename"`
	Size     int64        `yaml:"size"`
	Blocks   int64        `yaml:"blocks"`
	Units    []SummaryRow `yaml:"units"`
}

func (f *File) Summary() Summary {
	summary := Summary{
		Filename: f.filename,
		Size:     f.Size(),
		Blocks:   f.Blocks(),
		Units:    make([]SummaryRow, 0, len(f.HeaderDataUnits)),
	}

	for _, hdu := range f.HeaderDataUnits {
		row := SummaryRow{
			Index:      hdu.Index,
			Name:       hdu.Name(),
			Version:    hdu.Version(),
			Kind:       hdu.Kind(),
			Cards:      hdu.Cards(),
			Dimensions: hdu.Axes(),
		}
		if row.Kind == "PrimaryHDU" || row.Kind == "ImageHDU" {
			row.Format = hdu.Format()
		}
		summary.Units = append(summary.Units, row)
	}

	return summary
}

// String renders the summary as the usual "No. Name Ver Type" table.
func (s Summary) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Filename: %s\n", s.Filename)
	fmt.Fprintf(&sb, "No.    %-10s %3s %-11s %6s   %-12s %s\n", "Name", "Ver", "Type", "Cards", "Dimensions", "Format")

	for _, row := range s.Units {
		fmt.Fprintf(&sb, "%3d    %-10s %3d %-11s %6d   %-12s %s\n",
			row.Index, row.Name, row.Version, row.Kind, row.Cards, dimensions(row.Dimensions), row.Format)
	}

	return sb.String()
}

func (s Summary) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return out, nil
}

func dimensions(axes []int) string {
	if len(axes) == 0 {
		return "()"
	}

	parts := make([]string, len(axes))
	for i, n := range axes {
		parts[i] = strconv.Itoa(n)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
