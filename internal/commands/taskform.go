package commands

import (
	"flag"
	"strings"

	"taskdeck/internal/service"
)

// fieldFlag is a string flag that remembers whether it was given,
// so edit can tell "not set" from "set to empty".
type fieldFlag struct {
	value string
	set   bool
}

func (f *fieldFlag) String() string { return f.value }

func (f *fieldFlag) Set(s string) error {
	f.value = s
	f.set = true
	return nil
}

// taskForm holds the flags shared by add and edit.
type taskForm struct {
	title       fieldFlag
	description fieldFlag
	status      fieldFlag
	priority    fieldFlag
	due         fieldFlag
}

func (f *taskForm) register(fs *flag.FlagSet) {
	fs.Var(&f.title, "title", "")
	fs.Var(&f.title, "t", "")
	fs.Var(&f.description, "description", "")
	fs.Var(&f.description, "d", "")
	fs.Var(&f.status, "status", "")
	fs.Var(&f.status, "s", "")
	fs.Var(&f.priority, "priority", "")
	fs.Var(&f.priority, "p", "")
	fs.Var(&f.due, "due", "")
}

// apply overlays the flags that were given onto in. Unparseable values are
// kept as-is or reported so Validate can name the field.
func (f *taskForm) apply(in *service.TaskInput) service.ValidationErrors {
	errs := service.ValidationErrors{}

	if f.title.set {
		in.Title = f.title.value
	}
	if f.description.set {
		in.Description = f.description.value
	}
	if f.status.set {
		status, err := service.ParseStatus(f.status.value)
		if err != nil {
			status = service.Status(f.status.value)
		}
		in.Status = status
	}
	if f.priority.set {
		in.Priority = service.Priority(strings.ToUpper(strings.TrimSpace(f.priority.value)))
	}
	if f.due.set {
		if strings.TrimSpace(f.due.value) == "" {
			in.DueDate = nil
		} else if due, err := service.ParseTimestamp(f.due.value); err != nil {
			errs["dueDate"] = "Invalid date"
		} else {
			in.DueDate = &due
		}
	}
	return errs
}

// reset clears flag state between runs of the same command value.
func (f *taskForm) reset() {
	*f = taskForm{}
}

// validate merges parse errors with Validate's result. The past due date
// check applies only when checkDue is set, so a stored overdue date does not
// block edits to other fields.
func validate(in service.TaskInput, parseErrs service.ValidationErrors, checkDue bool) error {
	errs := service.ValidationErrors{}
	if err := in.Validate(Now()); err != nil {
		if verrs, ok := err.(service.ValidationErrors); ok {
			for k, v := range verrs {
				errs[k] = v
			}
			if !checkDue {
				delete(errs, "dueDate")
			}
		} else {
			return err
		}
	}
	for k, v := range parseErrs {
		errs[k] = v
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
