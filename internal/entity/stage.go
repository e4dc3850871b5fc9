package entity

import (
	"database/sql/driver"
	"fmt"
)

// Stage is the pipeline position of a lead. The set is closed: every value
// entering the system goes through ParseStage.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageQualified Stage = "qualified"
	StageProposal  Stage = "proposal"
	StageProject   Stage = "project" // won
	StageRejected  Stage = "rejected"
)

// Stages returns every stage in pipeline order.
func Stages() []Stage {
	return []Stage{StageNew, StageContacted, StageQualified, StageProposal, StageProject, StageRejected}
}

func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown stage %q", ErrValidation, s)
	}
	return st, nil
}

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageQualified, StageProposal, StageProject, StageRejected:
		return true
	}
	return false
}

// Label is the display name shown in notifications and emails.
func (s Stage) Label() string {
	switch s {
	case StageNew:
		return "New"
	case StageContacted:
		return "Contacted"
	case StageQualified:
		return "Qualified"
	case StageProposal:
		return "Proposal"
	case StageProject:
		return "Project"
	case StageRejected:
		return "Rejected"
	}
	return "Unknown"
}

// IsTerminal reports whether s closes the pipeline. Terminal stages can still
// be left again; nothing enforces immutability after reaching them.
func (s Stage) IsTerminal() bool {
	return s == StageProject || s == StageRejected
}

func (s Stage) String() string {
	return string(s)
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, string(s))
	}
	return []byte(s), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	st, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Scan implements sql.Scanner and rejects values outside the enum.
func (s *Stage) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: null stage", ErrValidation)
	}
	return fmt.Errorf("%w: cannot scan %T into Stage", ErrValidation, src)
}

func (s Stage) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, string(s))
	}
	return string(s), nil
}
