package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidParameter is returned when a value fails validation for its role.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrMissingParameter is returned when a declared placeholder has no value.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrUnknownParameter is returned when a value is supplied for an undeclared placeholder.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrUnknownTemplate is returned for keys not present in the table.
	ErrUnknownTemplate = errors.New("unknown command template")
)

// ParamError describes a rejected template parameter.
type ParamError struct {
	Template Key
	Param    string
	Value    string
	Err      error
}

func (e *ParamError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v %q", e.Template, e.Err, e.Param)
	}
	return fmt.Sprintf("%s: %v %q: %q", e.Template, e.Err, e.Param, e.Value)
}

func (e *ParamError) Unwrap() error { return e.Err }

// IsValidation reports whether err was produced by parameter validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrUnknownParameter) ||
		errors.Is(err, ErrUnknownTemplate)
}

// Params maps placeholder names to raw values.
type Params map[string]string

// Command is a built argument vector ready for execution.
type Command struct {
	Key      Key
	Program  string
	Args     []string
	Mutating bool
	Elevated bool
}

// String renders the command for display only. It is never passed to a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// Builder produces commands from a closed template table.
type Builder struct {
	templates map[Key]Template
}

// NewBuilder returns a Builder over the built-in template table.
func NewBuilder() *Builder {
	b, err := NewBuilderFrom(defaultTemplates)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBuilderFrom returns a Builder over the given templates after checking
// each one's placeholders against its declared parameters.
func NewBuilderFrom(templates []Template) (*Builder, error) {
	b := &Builder{templates: make(map[Key]Template, len(templates))}
	for _, t := range templates {
		if err := t.check(); err != nil {
			return nil, err
		}
		if _, dup := b.templates[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template %s", t.Key)
		}
		b.templates[t.Key] = t
	}
	return b, nil
}

// Template returns the template registered under key.
func (b *Builder) Template(key Key) (Template, bool) {
	t, ok := b.templates[key]
	return t, ok
}

// Build validates params against the template's declared roles and returns
// the substituted argument vector. Each placeholder value becomes part of a
// single argument; nothing is ever split or re-tokenized.
func (b *Builder) Build(key Key, params Params) (Command, error) {
	t, ok := b.templates[key]
	if !ok {
		return Command{}, &ParamError{Template: key, Param: string(key), Err: ErrUnknownTemplate}
	}

	for name := range params {
		if _, declared := t.Params[name]; !declared {
			return Command{}, &ParamError{Template: key, Param: name, Err: ErrUnknownParameter}
		}
	}

	values := make(map[string]string, len(t.Params))
	for _, name := range t.paramNames() {
		raw, ok := params[name]
		if !ok || strings.TrimSpace(raw) == "" {
			return Command{}, &ParamError{Template: key, Param: name, Err: ErrMissingParameter}
		}
		v, err := prepare(t.Params[name], raw)
		if err != nil {
			return Command{}, &ParamError{Template: key, Param: name, Value: raw, Err: err}
		}
		values[name] = v
	}

	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = placeholderPattern.ReplaceAllStringFunc(arg, func(m string) string {
			return values[m[1:len(m)-1]]
		})
	}

	return Command{
		Key:      key,
		Program:  t.Program,
		Args:     args,
		Mutating: t.Mutating,
		Elevated: t.Elevated,
	}, nil
}

func prepare(role Role, raw string) (string, error) {
	switch role {
	case RoleIdentifier, RoleVersion:
		if !ValidateIdentifier(raw, true) {
			return "", ErrInvalidParameter
		}
		return strings.TrimSpace(raw), nil
	case RoleQuery:
		if !ValidateQuery(raw) {
			return "", ErrInvalidParameter
		}
		v := strings.TrimSpace(Sanitize(raw))
		if v == "" {
			return "", ErrInvalidParameter
		}
		return v, nil
	default:
		return "", ErrInvalidParameter
	}
}
