package config

import (
	"fmt"

	"github.com/hay-kot/criterio"

	"tasklist/internal/task"
	"tasklist/internal/view"
)

// Validate checks the values the program cannot fall back from.
func (c Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("storage_key", c.StorageKey, notEmpty),
		criterio.Run("default_filter", c.DefaultFilter, knownFilter),
		criterio.Run("default_priority", c.DefaultPriority, knownPriority),
		criterio.Run("locale", c.Locale, knownLocale),
		c.Keys.validate(),
	)
}

func (k Keymap) validate() error {
	bindings := []struct {
		field string
		value string
	}{
		{"keys.quit", k.Quit},
		{"keys.add", k.Add},
		{"keys.up", k.Up},
		{"keys.down", k.Down},
		{"keys.toggle", k.Toggle},
		{"keys.delete", k.Delete},
		{"keys.confirm", k.Confirm},
		{"keys.cancel", k.Cancel},
		{"keys.edit", k.Edit},
		{"keys.cycle_priority", k.CyclePriority},
		{"keys.cycle_filter", k.CycleFilter},
		{"keys.filter_all", k.FilterAll},
		{"keys.filter_active", k.FilterActive},
		{"keys.filter_completed", k.FilterDone},
		{"keys.clear_completed", k.ClearCompleted},
	}

	var errs criterio.FieldErrorsBuilder
	for _, b := range bindings {
		if b.value == "" {
			errs = errs.Append(b.field, fmt.Errorf("key binding is empty"))
		}
	}
	return errs.ToError()
}

func notEmpty(v string) error {
	if v == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func knownFilter(v string) error {
	if _, ok := task.LookupFilter(v); !ok {
		return fmt.Errorf("unknown filter %q (want all, active or completed)", v)
	}
	return nil
}

func knownPriority(v string) error {
	_, err := task.ParsePriority(v)
	return err
}

func knownLocale(v string) error {
	if !view.HasLocale(v) {
		return fmt.Errorf("unsupported locale %q", v)
	}
	return nil
}
