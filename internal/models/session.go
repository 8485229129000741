package models

import (
	"fmt"
	"strings"
)

// Session is a client's working session: the package they bought, the Drive folder holding
// their photos and the ordered slot sequence being composed.
type Session struct {
	Record
	clientName    string
	packageID     string
	printSize     string
	driveFolderID string
	slots         []Slot
}

// NewSession creates a new Session with the given sequence number and no slots.
func NewSession(sequence int, clientName, packageID, printSize, driveFolderID string) *Session {
	return &Session{
		Record:        newRecord(sequence),
		clientName:    clientName,
		packageID:     packageID,
		printSize:     printSize,
		driveFolderID: driveFolderID,
	}
}

func (s *Session) ClientName() string        { return s.clientName }
func (s *Session) PackageID() string         { return s.packageID }
func (s *Session) PrintSize() string         { return s.printSize }
func (s *Session) DriveFolderID() string     { return s.driveFolderID }
func (s *Session) SetDriveFolderID(f string) { s.driveFolderID = f }

// Slots returns a copy of the session's ordered slot sequence.
func (s *Session) Slots() []Slot { return append([]Slot(nil), s.slots...) }

// SetSlots replaces the session's slot sequence with a copy of slots.
func (s *Session) SetSlots(slots []Slot) { s.slots = append([]Slot(nil), slots...) }

// Validate checks required fields.
func (s *Session) Validate() error {
	if s.ID() == "" {
		return fmt.Errorf("session ID is required")
	}
	if strings.TrimSpace(s.clientName) == "" {
		return fmt.Errorf("session client name is required")
	}
	if strings.TrimSpace(s.printSize) == "" {
		return fmt.Errorf("session print size is required")
	}
	return nil
}
