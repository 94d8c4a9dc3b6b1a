// Package cliarg builds the twig command line from a statically declared
// schema.
//
// The schema is a closed set of flag and command descriptors with typed
// value kinds, validated once at startup. Commands are identified by a
// CommandID enumeration and dispatched through an explicit handler table;
// there is no name-based method lookup anywhere.
package cliarg

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Kind is the closed set of flag value kinds.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// CommandID enumerates the commands twig knows. CmdNone means "no command
// given": the invocation is a plain query.
type CommandID int

const (
	CmdNone CommandID = iota
	CmdHistory
	CmdWipe
	CmdShell
	CmdLast
	CmdGet
)

// FlagSpec declares one option flag.
type FlagSpec struct {
	Name    string // long name, no dashes
	Abbrev  string // optional one-letter alias, no dashes
	Usage   string
	Kind    Kind
	Default any // must match Kind; nil means the kind's zero value
}

// CommandSpec declares one command flag. Commands are mutually exclusive
// per invocation. KindBool commands are switches; KindInt commands take a
// value (e.g. a history position).
type CommandSpec struct {
	Name   string
	Abbrev string
	Usage  string
	Kind   Kind
	ID     CommandID
}

// Schema is the full, statically declared argument surface.
type Schema struct {
	Name     string // program name, used in usage output
	Flags    []FlagSpec
	Commands []CommandSpec
}

// Validate checks the schema once at startup: names and abbrevs must be
// unique, every command must carry a real CommandID and a registered
// handler, and command kinds must be bool or int.
func (s Schema) Validate(registered map[CommandID]bool) error {
	seen := map[string]bool{}
	claim := func(name string) error {
		if name == "" {
			return nil
		}
		if seen[name] {
			return fmt.Errorf("duplicate flag name %q", name)
		}
		seen[name] = true
		return nil
	}

	for _, f := range s.Flags {
		if f.Name == "" {
			return fmt.Errorf("flag with empty name")
		}
		if err := claim(f.Name); err != nil {
			return err
		}
		if err := claim(f.Abbrev); err != nil {
			return err
		}
	}
	for _, c := range s.Commands {
		if c.Name == "" {
			return fmt.Errorf("command with empty name")
		}
		if err := claim(c.Name); err != nil {
			return err
		}
		if err := claim(c.Abbrev); err != nil {
			return err
		}
		if c.ID == CmdNone {
			return fmt.Errorf("command %q has no ID", c.Name)
		}
		if c.Kind != KindBool && c.Kind != KindInt {
			return fmt.Errorf("command %q: kind must be bool or int", c.Name)
		}
		if !registered[c.ID] {
			return fmt.Errorf("command %q has no registered handler", c.Name)
		}
	}
	return nil
}

// Values holds the parsed result of one invocation.
type Values struct {
	Query      string    // positional args joined with spaces
	Command    CommandID // CmdNone when no command flag was given
	CommandInt int       // value of a KindInt command (e.g. get position)

	strs   map[string]*string
	ints   map[string]*int
	floats map[string]*float64
	bools  map[string]*bool
}

// String returns the value of a KindString flag. Asking for an undeclared
// flag or the wrong kind is a programming error and panics.
func (v *Values) String(name string) string {
	p, ok := v.strs[name]
	if !ok {
		panic(fmt.Sprintf("cliarg: no string flag %q", name))
	}
	return *p
}

// Int returns the value of a KindInt flag.
func (v *Values) Int(name string) int {
	p, ok := v.ints[name]
	if !ok {
		panic(fmt.Sprintf("cliarg: no int flag %q", name))
	}
	return *p
}

// Float returns the value of a KindFloat flag.
func (v *Values) Float(name string) float64 {
	p, ok := v.floats[name]
	if !ok {
		panic(fmt.Sprintf("cliarg: no float flag %q", name))
	}
	return *p
}

// Bool returns the value of a KindBool flag.
func (v *Values) Bool(name string) bool {
	p, ok := v.bools[name]
	if !ok {
		panic(fmt.Sprintf("cliarg: no bool flag %q", name))
	}
	return *p
}

// Parse builds a flag set from the schema, parses argv (without the
// program name), and enforces command mutual exclusion. Usage output for
// parse errors goes to usageOut.
func Parse(s Schema, argv []string, usageOut io.Writer) (*Values, error) {
	fs := flag.NewFlagSet(s.Name, flag.ContinueOnError)
	fs.SetOutput(usageOut)

	v := &Values{
		strs:   map[string]*string{},
		ints:   map[string]*int{},
		floats: map[string]*float64{},
		bools:  map[string]*bool{},
	}

	for _, f := range s.Flags {
		switch f.Kind {
		case KindString:
			def, _ := f.Default.(string)
			p := new(string)
			fs.StringVar(p, f.Name, def, f.Usage)
			if f.Abbrev != "" {
				fs.StringVar(p, f.Abbrev, def, f.Usage)
			}
			v.strs[f.Name] = p
		case KindInt:
			def, _ := f.Default.(int)
			p := new(int)
			fs.IntVar(p, f.Name, def, f.Usage)
			if f.Abbrev != "" {
				fs.IntVar(p, f.Abbrev, def, f.Usage)
			}
			v.ints[f.Name] = p
		case KindFloat:
			def, _ := f.Default.(float64)
			p := new(float64)
			fs.Float64Var(p, f.Name, def, f.Usage)
			if f.Abbrev != "" {
				fs.Float64Var(p, f.Abbrev, def, f.Usage)
			}
			v.floats[f.Name] = p
		case KindBool:
			def, _ := f.Default.(bool)
			p := new(bool)
			fs.BoolVar(p, f.Name, def, f.Usage)
			if f.Abbrev != "" {
				fs.BoolVar(p, f.Abbrev, def, f.Usage)
			}
			v.bools[f.Name] = p
		default:
			return nil, fmt.Errorf("flag %q: unknown kind %d", f.Name, f.Kind)
		}
	}

	// Register command flags and remember which names belong to which
	// command so set-detection after parse can map back.
	cmdInts := map[string]*int{}
	byName := map[string]CommandSpec{}
	for _, c := range s.Commands {
		names := []string{c.Name}
		if c.Abbrev != "" {
			names = append(names, c.Abbrev)
		}
		switch c.Kind {
		case KindBool:
			p := new(bool)
			for _, n := range names {
				fs.BoolVar(p, n, false, c.Usage)
				byName[n] = c
			}
		case KindInt:
			p := new(int)
			for _, n := range names {
				fs.IntVar(p, n, 0, c.Usage)
				byName[n] = c
			}
			cmdInts[c.Name] = p
		}
	}

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	// Mutual exclusion: at most one command may be set explicitly.
	var set []CommandSpec
	fs.Visit(func(f *flag.Flag) {
		c, ok := byName[f.Name]
		if !ok {
			return
		}
		for _, prev := range set {
			if prev.ID == c.ID {
				return // long and abbrev of the same command
			}
		}
		set = append(set, c)
	})
	if len(set) > 1 {
		names := make([]string, len(set))
		for i, c := range set {
			names[i] = "--" + c.Name
		}
		return nil, fmt.Errorf("commands are mutually exclusive: %s", strings.Join(names, ", "))
	}
	if len(set) == 1 {
		c := set[0]
		v.Command = c.ID
		if c.Kind == KindInt {
			v.CommandInt = *cmdInts[c.Name]
		}
	}

	v.Query = strings.Join(fs.Args(), " ")
	return v, nil
}
