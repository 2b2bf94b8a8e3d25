// Copyright © 2024 The ELPS authors

package options

import "strings"

// Setting is one entry of a directive comment body, e.g. "undef:true" or
// "-W098" or "foo" in a global list.
type Setting struct {
	Name     string
	Value    string
	HasValue bool
}

// SplitDirective splits a directive comment body into settings.  Entries
// are separated by commas or newlines and may carry a ":value" suffix.
func SplitDirective(body string) []Setting {
	var settings []Setting
	fields := strings.FieldsFunc(body, func(c rune) bool {
		return c == ',' || c == '\n'
	})
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, value, ok := strings.Cut(field, ":")
		setting := Setting{Name: strings.TrimSpace(name)}
		if ok {
			setting.Value = strings.TrimSpace(value)
			setting.HasValue = true
		}
		if setting.Name == "" {
			continue
		}
		settings = append(settings, setting)
	}
	return settings
}

// Apply sets every named option in settings on o.  Code toggles and the
// ignore setting are skipped; callers handle them.  The first error is
// returned after all settings have been attempted.
func (o *Options) Apply(settings []Setting) []error {
	var errs []error
	for _, s := range settings {
		if _, _, ok := ParseCodeToggle(s.Name); ok || s.Name == "ignore" {
			continue
		}
		if !s.HasValue {
			errs = append(errs, &OptionError{Name: s.Name, Err: ErrBadValue})
			continue
		}
		if err := o.Set(s.Name, s.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
