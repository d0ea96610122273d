package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/ccitool/ccitool/internal/command"
	"github.com/ccitool/ccitool/internal/version"
)

// Config holds the hand-written parts of the docs that the command tree
// cannot provide.
type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template *template.Template
	Folder   string
	Prefix   string
	Suffix   string
}

var markdownTmpl = template.Must(template.New("md").Parse(`# ccitool {{.ID}}

{{.Short}}

## Usage

    {{.Usage}}
{{if .Description}}
{{.Description}}
{{end}}
## Flags

| Flag | Description | Default |
| ---- | ----------- | ------- |
{{range .Flags}}| ` + "`{{.Syntax}}`" + ` | {{.Description}} | {{.Default}} |
{{end}}{{if .Examples}}
## Examples
{{range .Examples}}
{{.Description}}

    {{.Command}}
{{end}}{{end}}{{if .Notes}}
## Notes
{{range .Notes}}
- {{.}}{{end}}
{{end}}
_Generated {{.Date}} for ccitool {{.Version}}._
`))

var manTmpl = template.Must(template.New("man").Parse(`.TH CCITOOL-{{.IDUpper}} 1 "{{.Date}}" "ccitool {{.Version}}"
.SH NAME
ccitool-{{.ID}} \- {{.Short}}
.SH SYNOPSIS
{{.Usage}}
{{if .Description}}.SH DESCRIPTION
{{.Description}}
{{end}}.SH OPTIONS
{{range .Flags}}.TP
\fB{{.Syntax}}\fR
{{.Description}}{{if .Default}} (default: {{.Default}}){{end}}
{{end}}{{range .Examples}}.SH EXAMPLE
{{.Description}}
.PP
{{.Command}}
{{end}}`))

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	if err := generate(os.Args[1], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate writes markdown and man pages for every subcommand into docs.
func generate(docs string, log io.Writer) error {
	config, err := loadConfig(filepath.Join(docs, "templates", "ccitool.yaml"))
	if err != nil {
		return err
	}

	app, err := command.InitApp(context.Background(), []string{"ccitool"})
	if err != nil {
		return err
	}

	types := []Outputs{
		{Template: markdownTmpl, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: manTmpl, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "ccitool-", Suffix: ".1"},
	}

	for _, sub := range subcommands(app, config) {
		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    strings.TrimPrefix(version.Version, "v"),
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				return err
			}

			name := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Fprintln(log, "Generating", name)
			if err := render(name, t.Template, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(name string, tmpl *template.Template, data TemplateData) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return tmpl.Execute(file, data)
}

// loadConfig reads the hand-written docs. A missing file yields an empty
// config.
func loadConfig(path string) (Config, error) {
	var config Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return config, nil
}

// subcommands describes each command of app, merging in the hand-written
// description, examples and notes from config.
func subcommands(app *cli.Command, config Config) []Subcommand {
	extra := map[string]Subcommand{}
	for _, sub := range config.Subcommands {
		extra[sub.ID] = sub
	}

	//nolint:prealloc
	var subs []Subcommand
	for _, cmd := range app.Commands {
		sub := Subcommand{
			ID:    cmd.Name,
			Short: cmd.Usage,
			Usage: cmd.UsageText,
		}
		if sub.Usage == "" {
			sub.Usage = "ccitool " + cmd.Name + " [options]"
		}
		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, describeFlag(f))
		}

		if e, ok := extra[cmd.Name]; ok {
			if e.Short != "" {
				sub.Short = e.Short
			}
			sub.Description = e.Description
			sub.Examples = e.Examples
			sub.Notes = e.Notes
		}
		subs = append(subs, sub)
	}
	return subs
}

func describeFlag(f cli.Flag) Flag {
	names := f.Names()
	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}

	out := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
	if u, ok := f.(interface{ GetUsage() string }); ok {
		out.Description = u.GetUsage()
	}
	if d, ok := f.(interface{ GetValue() string }); ok {
		out.Default = strings.Trim(d.GetValue(), `"`)
	}
	return out
}
