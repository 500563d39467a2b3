package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mountainthreads/rental-ops/internal/models"
)

// Mode is how a session's people become submissions.
type Mode string

const (
	// ModeMember sends every person as an independent submission.
	ModeMember Mode = "member"
	// ModeLeaderSelf sends the group leader alone.
	ModeLeaderSelf Mode = "leader-self"
	// ModeLeaderCrew sends the leader as crew leader, then the crew.
	ModeLeaderCrew Mode = "leader-crew"
)

// State is a session's position in the form flow.
type State string

const (
	StateSelectingMode State = "selecting-mode"
	StateFilling       State = "filling"
	StateSubmitting    State = "submitting"
	StateSuccess       State = "success"
	StateErrorRetry    State = "error-retry"
)

// GenericErrorMessage is all a respondent sees when a submission fails.
const GenericErrorMessage = "Something went wrong. Please try again."

var (
	ErrInvalidTransition    = errors.New("action not allowed in the current state")
	ErrInvalidMode          = errors.New("mode not available for this form")
	ErrNoPeople             = errors.New("at least one person is required")
	ErrLastPerson           = errors.New("cannot remove the only person")
	ErrPersonIndex          = errors.New("no person at that position")
	ErrSingleOnly           = errors.New("only one person may be submitted in this mode")
	ErrRentalDatesRequired  = errors.New("rental start and return dates are required")
	ErrLeaderEmailRequired  = errors.New("leader email is required")
	ErrClothingTypeRequired = errors.New("clothing type is required")
	ErrSubmitFailed         = errors.New("submission failed")
	ErrPersonSubmitted      = errors.New("person has already been submitted")
)

// Rental is the trip block of the leader form.
type Rental struct {
	StartDate string `json:"rentalStartDate"`
	EndDate   string `json:"rentalEndDate"`
	SkiResort string `json:"skiResort"`
}

// Session is one pass through a public form. CrewID holds the leader's crew
// once the leader has been stored.
type Session struct {
	ID       string   `json:"id"`
	GroupID  string   `json:"groupId"`
	Leader   bool     `json:"leader"`
	Mode     Mode     `json:"mode"`
	State    State    `json:"state"`
	People   []Person `json:"people"`
	Rental   Rental   `json:"rental"`
	CrewName string   `json:"crewName"`
	CrewID   *string  `json:"crewId,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// SubmitRequest is one submission a session sends.
type SubmitRequest struct {
	GroupID        string
	Email          *string
	Data           models.SubmissionData
	IsLeader       bool
	IsCrewLeader   bool
	CrewID         *string
	CrewName       *string
	PaysSeparately bool
	IdempotencyKey string

	// JoinsLeaderCrew marks crew members whose CrewID comes from the
	// leader's response.
	JoinsLeaderCrew bool
}

// SubmitResponse is what the caller needs back from a stored submission.
type SubmitResponse struct {
	ID     string
	CrewID *string
}

// Submitter stores one submission.
type Submitter interface {
	Submit(req SubmitRequest) (*SubmitResponse, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(req SubmitRequest) (*SubmitResponse, error)

func (f SubmitterFunc) Submit(req SubmitRequest) (*SubmitResponse, error) {
	return f(req)
}

// NewMemberSession starts the member form with one empty person.
func NewMemberSession(groupID string) *Session {
	return &Session{
		ID:      uuid.NewString(),
		GroupID: groupID,
		Mode:    ModeMember,
		State:   StateFilling,
		People:  []Person{newPerson()},
	}
}

// NewLeaderSession starts the leader form at the mode choice, with the first
// person prefilled from the group's leader.
func NewLeaderSession(groupID, leaderName, leaderEmail string) *Session {
	return &Session{
		ID:      uuid.NewString(),
		GroupID: groupID,
		Leader:  true,
		State:   StateSelectingMode,
		People:  []Person{keyed(PrefillLeader(leaderName, leaderEmail))},
	}
}

// SelectMode picks "just myself" or "my crew" on the leader form.
func (s *Session) SelectMode(mode Mode) error {
	if s.State != StateSelectingMode {
		return ErrInvalidTransition
	}
	if !s.Leader || (mode != ModeLeaderSelf && mode != ModeLeaderCrew) {
		return ErrInvalidMode
	}
	s.Mode = mode
	if mode == ModeLeaderSelf && len(s.People) > 1 {
		s.People = s.People[:1]
	}
	s.State = StateFilling
	return nil
}

// Back returns the leader form to the mode choice, clearing everyone but
// the prefilled leader.
func (s *Session) Back(leaderName, leaderEmail string) error {
	if !s.Leader || (s.State != StateFilling && s.State != StateErrorRetry) {
		return ErrInvalidTransition
	}
	if s.anyStored() {
		return ErrPersonSubmitted
	}
	s.Mode = ""
	s.CrewName = ""
	s.Error = ""
	s.People = []Person{keyed(PrefillLeader(leaderName, leaderEmail))}
	s.State = StateSelectingMode
	return nil
}

// Edit applies a field change to one person. Editing after a failure
// returns the session to filling.
func (s *Session) Edit(index int, field Field, value string) error {
	if err := s.resumeEditing(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.People) {
		return ErrPersonIndex
	}
	if s.People[index].SubmissionID != "" {
		return ErrPersonSubmitted
	}
	return s.People[index].Apply(field, value)
}

// AddPerson appends an empty person.
func (s *Session) AddPerson() error {
	if err := s.resumeEditing(); err != nil {
		return err
	}
	if s.Mode == ModeLeaderSelf {
		return ErrSingleOnly
	}
	s.People = append(s.People, newPerson())
	return nil
}

// RemovePerson drops a person, always keeping at least one.
func (s *Session) RemovePerson(index int) error {
	if err := s.resumeEditing(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.People) {
		return ErrPersonIndex
	}
	if len(s.People) == 1 {
		return ErrLastPerson
	}
	if s.People[index].SubmissionID != "" {
		return ErrPersonSubmitted
	}
	s.People = append(s.People[:index], s.People[index+1:]...)
	return nil
}

func newPerson() Person {
	return Person{Key: uuid.NewString()}
}

func keyed(p Person) Person {
	p.Key = uuid.NewString()
	return p
}

// ensureKeys gives every person a unique uuid key. Keys arrive from the
// browser, so invalid or repeated ones are replaced.
func (s *Session) ensureKeys() {
	seen := make(map[string]bool, len(s.People))
	for i := range s.People {
		p := &s.People[i]
		if _, err := uuid.Parse(p.Key); err != nil || seen[p.Key] {
			p.Key = uuid.NewString()
		}
		seen[p.Key] = true
	}
}

func (s *Session) anyStored() bool {
	for _, p := range s.People {
		if p.SubmissionID != "" {
			return true
		}
	}
	return false
}

func (s *Session) resumeEditing() error {
	switch s.State {
	case StateFilling:
		return nil
	case StateErrorRetry:
		s.State = StateFilling
		s.Error = ""
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Requests assembles the submissions in send order: the leader first, then
// anyone who needs the leader's crew id.
func (s *Session) Requests() ([]SubmitRequest, error) {
	if len(s.People) == 0 {
		return nil, ErrNoPeople
	}
	if s.Mode == ModeLeaderSelf && len(s.People) > 1 {
		return nil, ErrSingleOnly
	}

	var rental *models.RentalDetails
	if s.Mode == ModeLeaderSelf || s.Mode == ModeLeaderCrew {
		r, err := s.rentalDetails()
		if err != nil {
			return nil, err
		}
		rental = r
		if strings.TrimSpace(s.People[0].Email) == "" {
			return nil, ErrLeaderEmailRequired
		}
	}

	requests := make([]SubmitRequest, 0, len(s.People))
	for i, p := range s.People {
		if p.ClothingType == "" {
			return nil, fmt.Errorf("person %d: %w", i+1, ErrClothingTypeRequired)
		}

		req := SubmitRequest{
			GroupID:        s.GroupID,
			Email:          optional(p.Email),
			IdempotencyKey: p.Key,
		}

		switch s.Mode {
		case ModeLeaderSelf:
			req.IsLeader = true
			req.Data = p.SubmissionData(rental)
		case ModeLeaderCrew:
			if i == 0 {
				req.IsLeader = true
				req.IsCrewLeader = true
				req.CrewName = optional(s.CrewName)
				req.Data = p.SubmissionData(rental)
			} else {
				req.JoinsLeaderCrew = true
				req.PaysSeparately = p.PaysSeparately
				req.Data = p.SubmissionData(nil)
			}
		case ModeMember:
			req.Data = p.SubmissionData(nil)
		default:
			return nil, ErrInvalidMode
		}

		if err := req.Data.Validate(); err != nil {
			return nil, fmt.Errorf("person %d: %w", i+1, err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func (s *Session) rentalDetails() (*models.RentalDetails, error) {
	if strings.TrimSpace(s.Rental.StartDate) == "" || strings.TrimSpace(s.Rental.EndDate) == "" {
		return nil, ErrRentalDatesRequired
	}
	start, err := models.ParseDatePtr(s.Rental.StartDate)
	if err != nil {
		return nil, fmt.Errorf("rental start date: %w", err)
	}
	end, err := models.ParseDatePtr(s.Rental.EndDate)
	if err != nil {
		return nil, fmt.Errorf("rental return date: %w", err)
	}
	return &models.RentalDetails{
		StartDate: start,
		EndDate:   end,
		SkiResort: optional(s.Rental.SkiResort),
	}, nil
}

// Run sends every request in order, stopping at the first failure. People
// already stored by an earlier run are skipped; the rest are sent under their
// own keys so a retried request is not stored twice.
func (s *Session) Run(submitter Submitter) error {
	if s.State != StateFilling && s.State != StateErrorRetry {
		return ErrInvalidTransition
	}

	s.ensureKeys()
	requests, err := s.Requests()
	if err != nil {
		return err
	}

	s.State = StateSubmitting
	s.Error = ""

	for i, req := range requests {
		if s.People[i].SubmissionID != "" {
			continue
		}
		if req.JoinsLeaderCrew {
			req.CrewID = s.CrewID
		}

		resp, err := submitter.Submit(req)
		if err != nil {
			s.State = StateErrorRetry
			s.Error = GenericErrorMessage
			return fmt.Errorf("%w: person %d: %w", ErrSubmitFailed, i+1, err)
		}

		if resp == nil {
			continue
		}
		s.People[i].SubmissionID = resp.ID
		if req.IsCrewLeader {
			s.CrewID = resp.CrewID
		}
	}

	s.State = StateSuccess
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
