package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/metrics"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"github.com/mountainthreads/rental-ops/internal/testutil"
	"github.com/mountainthreads/rental-ops/internal/wizard"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type serviceSuite struct {
	suite.Suite

	db          *gorm.DB
	metrics     *metrics.Metrics
	groups      *GroupService
	submissions *SubmissionService
	crews       *CrewService
	auth        *AuthService
}

func TestServices(t *testing.T) {
	suite.Run(t, new(serviceSuite))
}

func (s *serviceSuite) SetupTest() {
	s.db = testutil.OpenDB(s.T())
	s.metrics = metrics.New()

	groupRepo := repository.NewGroupRepository(s.db)
	crewRepo := repository.NewCrewRepository(s.db)
	submissionRepo := repository.NewSubmissionRepository(s.db)

	s.groups = NewGroupService(groupRepo, s.metrics)
	s.submissions = NewSubmissionService(groupRepo, crewRepo, submissionRepo, s.metrics)
	s.crews = NewCrewService(crewRepo)
	s.auth = NewAuthService(
		repository.NewAdminRepository(s.db),
		auth.NewTokenManager("service-test-secret", time.Hour),
	)
}

func (s *serviceSuite) createGroup(name string) *models.Group {
	g, err := s.groups.CreateGroup(CreateGroupInput{
		Name:        name,
		LeaderName:  "Mike Tyson",
		LeaderEmail: "mike@example.com",
	})
	s.Require().NoError(err)
	return g
}

func (s *serviceSuite) data(raw string) models.SubmissionData {
	var d models.SubmissionData
	s.Require().NoError(json.Unmarshal([]byte(raw), &d))
	return d
}

func (s *serviceSuite) countRows(model interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Count(&n).Error)
	return n
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(v string) *string { return &v }
func intPtr(n int) *int       { return &n }

// Groups

func (s *serviceSuite) TestCreateGroup_SlugCollisions() {
	first := s.createGroup("Tyson Family")
	second := s.createGroup("Tyson Family")
	third := s.createGroup("tyson  family!")

	s.Equal("tyson-family", first.Slug)
	s.Equal("tyson-family-1", second.Slug)
	s.Equal("tyson-family-2", third.Slug)
}

func (s *serviceSuite) TestCreateGroup_Validation() {
	cases := map[string]struct {
		input CreateGroupInput
		want  error
	}{
		"name":         {CreateGroupInput{LeaderName: "L", LeaderEmail: "l@example.com"}, ErrGroupNameRequired},
		"leader name":  {CreateGroupInput{Name: "G", LeaderEmail: "l@example.com"}, ErrLeaderNameRequired},
		"leader email": {CreateGroupInput{Name: "G", LeaderName: "L"}, ErrLeaderEmailRequired},
		"bad email":    {CreateGroupInput{Name: "G", LeaderName: "L", LeaderEmail: "nope"}, ErrInvalidLeaderEmail},
		"bad emails":   {CreateGroupInput{Name: "G", LeaderName: "L", LeaderEmail: "l@example.com", Emails: []string{"x"}}, ErrInvalidGroupEmail},
		"size":         {CreateGroupInput{Name: "G", LeaderName: "L", LeaderEmail: "l@example.com", ExpectedSize: intPtr(0)}, ErrInvalidExpectedSize},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			_, err := s.groups.CreateGroup(tc.input)
			s.ErrorIs(err, tc.want)
		})
	}
	s.Equal(int64(0), s.countRows(&models.Group{}))
}

func (s *serviceSuite) TestCreateThenGet_RoundTrip() {
	created, err := s.groups.CreateGroup(CreateGroupInput{
		Name:         "Big Sky Trip",
		LeaderName:   "Ava",
		LeaderEmail:  "ava@example.com",
		Emails:       []string{"b@example.com", " ", "a@example.com"},
		ExpectedSize: intPtr(6),
		Notes:        "<i>early</i> pickup",
	})
	s.Require().NoError(err)

	got, err := s.groups.GetGroup(created.ID)
	s.Require().NoError(err)
	s.Equal("Big Sky Trip", got.Name)
	s.Equal([]string{"b@example.com", "a@example.com"}, got.Emails)
	s.Equal(6, *got.ExpectedSize)
	s.Equal("early pickup", got.Notes)
	s.False(got.Paid || got.PickedUp || got.Returned || got.Archived)
	s.Empty(got.Submissions)
	s.Empty(got.Crews)
}

func (s *serviceSuite) TestUpdateGroup_ReturnedForcesArchived() {
	g := s.createGroup("Lifecycle")

	updated, err := s.groups.UpdateGroup(g.ID, UpdateGroupInput{Returned: boolPtr(true)})
	s.Require().NoError(err)
	s.True(updated.Returned)
	s.True(updated.Archived)

	_, err = s.groups.UpdateGroup(g.ID, UpdateGroupInput{Archived: boolPtr(false)})
	s.ErrorIs(err, ErrReturnedNotArchived)
	stored, err := s.groups.GetGroup(g.ID)
	s.Require().NoError(err)
	s.True(stored.Archived)

	// Returned in the same patch wins over archived=false.
	updated, err = s.groups.UpdateGroup(g.ID, UpdateGroupInput{Returned: boolPtr(true), Archived: boolPtr(false)})
	s.Require().NoError(err)
	s.True(updated.Archived)

	// Other flags can still change on a returned group.
	updated, err = s.groups.UpdateGroup(g.ID, UpdateGroupInput{Paid: boolPtr(true)})
	s.Require().NoError(err)
	s.True(updated.Paid)
	s.True(updated.Archived)

	// Clearing returned leaves the group archived until it is unarchived.
	updated, err = s.groups.UpdateGroup(g.ID, UpdateGroupInput{Returned: boolPtr(false)})
	s.Require().NoError(err)
	s.False(updated.Returned)
	s.True(updated.Archived)
	updated, err = s.groups.UpdateGroup(g.ID, UpdateGroupInput{Returned: boolPtr(true)})
	s.Require().NoError(err)
	s.True(updated.Archived)

	restored, err := s.groups.RestoreGroup(g.ID)
	s.Require().NoError(err)
	s.False(restored.Archived)
	s.False(restored.Returned)
}

func (s *serviceSuite) TestUpdateGroup_PatchSemantics() {
	g := s.createGroup("Patchable")
	start := models.NewDate(2025, time.January, 10)

	updated, err := s.groups.UpdateGroup(g.ID, UpdateGroupInput{
		Paid:            boolPtr(true),
		ExpectedSize:    intPtr(4),
		RentalStartDate: &start,
		SkiResort:       strPtr(" Big Sky "),
	})
	s.Require().NoError(err)
	s.True(updated.Paid)
	s.Equal("Big Sky", *updated.SkiResort)
	s.Equal(g.Slug, updated.Slug)

	same, err := s.groups.UpdateGroup(g.ID, UpdateGroupInput{})
	s.Require().NoError(err)
	s.Equal(updated.UpdatedAt.Unix(), same.UpdatedAt.Unix())

	cleared, err := s.groups.UpdateGroup(g.ID, UpdateGroupInput{ClearExpectedSize: true, ClearSkiResort: true})
	s.Require().NoError(err)
	s.Nil(cleared.ExpectedSize)
	s.Nil(cleared.SkiResort)
	s.NotNil(cleared.RentalStartDate)

	_, err = s.groups.UpdateGroup(g.ID, UpdateGroupInput{Name: strPtr("  ")})
	s.ErrorIs(err, ErrGroupNameRequired)

	_, err = s.groups.UpdateGroup("missing", UpdateGroupInput{Paid: boolPtr(true)})
	s.ErrorIs(err, ErrGroupNotFound)
}

func (s *serviceSuite) TestArchiveRestoreDelete() {
	g := s.createGroup("Seasonal")

	archived, err := s.groups.ArchiveGroup(g.ID)
	s.Require().NoError(err)
	s.True(archived.Archived)

	restored, err := s.groups.RestoreGroup(g.ID)
	s.Require().NoError(err)
	s.False(restored.Archived)

	_, err = s.submissions.Submit(SubmitInput{
		GroupID:      g.ID,
		IsCrewLeader: true,
		Data:         s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.groups.DeleteGroup(g.ID))
	s.Equal(int64(0), s.countRows(&models.FormSubmission{}))
	s.Equal(int64(0), s.countRows(&models.Crew{}))
	s.ErrorIs(s.groups.DeleteGroup(g.ID), ErrGroupNotFound)
}

func (s *serviceSuite) TestListGroups_RejectsUnknownFilters() {
	_, _, err := s.groups.ListGroups(ListGroupsInput{Status: "lost"})
	s.ErrorIs(err, ErrInvalidGroupStatus)

	_, _, err = s.groups.ListGroups(ListGroupsInput{Sort: "random"})
	s.ErrorIs(err, ErrInvalidGroupSort)
}

func (s *serviceSuite) TestDashboardStats() {
	for _, name := range []string{"One", "Two", "Three", "Four", "Five", "Six"} {
		s.createGroup(name)
	}
	g := s.createGroup("Seven")
	_, err := s.groups.UpdateGroup(g.ID, UpdateGroupInput{Paid: boolPtr(true)})
	s.Require().NoError(err)

	stats, err := s.groups.DashboardStats()
	s.Require().NoError(err)
	s.Equal(int64(7), stats.TotalGroups)
	s.Equal(int64(6), stats.PendingPayment)
	s.Equal(int64(1), stats.PendingPickup)
	s.Len(stats.RecentGroups, 5)
}

// Submissions

func (s *serviceSuite) TestTysonFamilyScenario() {
	g := s.createGroup("Tyson Family")

	leader, err := s.submissions.Submit(SubmitInput{
		GroupID:      g.ID,
		IsLeader:     true,
		IsCrewLeader: true,
		CrewName:     strPtr("Tysons"),
		Data: s.data(`{"firstName":"Mike","lastName":"Tyson","email":"mike@example.com",
			"clothingType":"mens","shoeSize":"10","rentalStartDate":"2025-01-10",
			"rentalEndDate":"2025-01-15","skiResort":"Big Sky"}`),
	})
	s.Require().NoError(err)
	s.True(leader.Created)
	s.Require().NotNil(leader.Submission.CrewID)
	s.Equal("mike@example.com", *leader.Submission.Email)

	kid, err := s.submissions.Submit(SubmitInput{
		GroupID:        g.ID,
		CrewID:         leader.Submission.CrewID,
		PaysSeparately: true,
		Data:           s.data(`{"firstName":"Ava","lastName":"Tyson","clothingType":"youth","youthGender":"girls","bibSize":"M"}`),
	})
	s.Require().NoError(err)
	s.Equal(*leader.Submission.CrewID, *kid.Submission.CrewID)
	s.True(kid.Submission.PaysSeparately)

	s.Equal(int64(1), s.countRows(&models.Crew{}))
	s.Equal(int64(2), s.countRows(&models.FormSubmission{}))

	got, err := s.groups.GetGroup(g.ID)
	s.Require().NoError(err)
	s.Equal("2025-01-10", got.RentalStartDate.String())
	s.Equal("2025-01-15", got.RentalEndDate.String())
	s.Equal("Big Sky", *got.SkiResort)
	s.Require().Len(got.Crews, 1)
	s.Equal("Tysons", *got.Crews[0].Name)
}

func (s *serviceSuite) TestArchiveThenSubmitScenario() {
	g := s.createGroup("Closed Trip")
	_, err := s.groups.ArchiveGroup(g.ID)
	s.Require().NoError(err)

	_, err = s.submissions.Submit(SubmitInput{
		GroupID: g.ID,
		Data:    s.data(`{"firstName":"Late","lastName":"Comer","clothingType":"mens"}`),
	})
	s.ErrorIs(err, ErrGroupClosed)
	s.Equal(int64(0), s.countRows(&models.FormSubmission{}))
}

func (s *serviceSuite) TestSubmit_CrewRules() {
	g := s.createGroup("Crews")
	other := s.createGroup("Other")
	person := `{"firstName":"A","lastName":"B","clothingType":"toddler","toddlerSetSize":"2T"}`

	named, err := s.submissions.Submit(SubmitInput{GroupID: g.ID, CrewName: strPtr("Named"), Data: s.data(person)})
	s.Require().NoError(err)
	s.NotNil(named.Submission.CrewID)

	solo, err := s.submissions.Submit(SubmitInput{GroupID: g.ID, CrewName: strPtr("   "), Data: s.data(person)})
	s.Require().NoError(err)
	s.Nil(solo.Submission.CrewID)

	_, err = s.submissions.Submit(SubmitInput{GroupID: other.ID, CrewID: named.Submission.CrewID, Data: s.data(person)})
	s.ErrorIs(err, ErrCrewNotInGroup)

	_, err = s.submissions.Submit(SubmitInput{GroupID: "missing", Data: s.data(person)})
	s.ErrorIs(err, ErrGroupNotFound)

	_, err = s.submissions.Submit(SubmitInput{GroupID: g.ID, Data: s.data(`{"firstName":"A","lastName":"B","clothingType":"youth"}`)})
	s.ErrorIs(err, models.ErrInvalidSubmissionData)

	s.Equal(int64(1), s.countRows(&models.Crew{}))
}

func (s *serviceSuite) TestSubmit_LeaderWithoutRentalClearsGroupDates() {
	g := s.createGroup("Resets")
	start := models.NewDate(2025, time.March, 1)
	_, err := s.groups.UpdateGroup(g.ID, UpdateGroupInput{RentalStartDate: &start, SkiResort: strPtr("Vail")})
	s.Require().NoError(err)

	_, err = s.submissions.Submit(SubmitInput{
		GroupID:  g.ID,
		IsLeader: true,
		Data:     s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`),
	})
	s.Require().NoError(err)

	got, err := s.groups.GetGroup(g.ID)
	s.Require().NoError(err)
	s.Nil(got.RentalStartDate)
	s.Nil(got.SkiResort)
}

func (s *serviceSuite) TestSubmit_IdempotencyKey() {
	g := s.createGroup("Retry")
	input := SubmitInput{
		GroupID:        g.ID,
		IsCrewLeader:   true,
		IdempotencyKey: strPtr("wizard-1-0"),
		Data:           s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`),
	}

	first, err := s.submissions.Submit(input)
	s.Require().NoError(err)
	s.True(first.Created)

	again, err := s.submissions.Submit(input)
	s.Require().NoError(err)
	s.False(again.Created)
	s.Equal(first.Submission.ID, again.Submission.ID)
	s.Equal(int64(1), s.countRows(&models.FormSubmission{}))
	s.Equal(int64(1), s.countRows(&models.Crew{}))
}

func (s *serviceSuite) TestWizardRetry_StoresEveryPerson() {
	g := s.createGroup("Smith Family")

	session := wizard.NewMemberSession(g.ID)
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		if i > 0 {
			s.Require().NoError(session.AddPerson())
		}
		s.Require().NoError(session.Edit(i, wizard.FieldFirstName, name))
		s.Require().NoError(session.Edit(i, wizard.FieldLastName, "Smith"))
		s.Require().NoError(session.Edit(i, wizard.FieldClothingType, "womens"))
	}

	failOn := "Carol"
	submitter := wizard.SubmitterFunc(func(req wizard.SubmitRequest) (*wizard.SubmitResponse, error) {
		if req.Data.FirstName == failOn {
			return nil, errors.New("connection reset")
		}
		key := req.IdempotencyKey
		result, err := s.submissions.Submit(SubmitInput{
			GroupID:        req.GroupID,
			Data:           req.Data,
			IdempotencyKey: &key,
		})
		if err != nil {
			return nil, err
		}
		return &wizard.SubmitResponse{ID: result.Submission.ID}, nil
	})

	s.Require().ErrorIs(session.Run(submitter), wizard.ErrSubmitFailed)
	s.ErrorIs(session.RemovePerson(1), wizard.ErrPersonSubmitted)

	failOn = ""
	s.Require().NoError(session.Run(submitter))
	s.Equal(wizard.StateSuccess, session.State)

	var rows []models.FormSubmission
	s.Require().NoError(s.db.Where("group_id = ?", g.ID).Order("created_at").Find(&rows).Error)
	var names []string
	for _, r := range rows {
		names = append(names, r.Data.FirstName)
	}
	s.ElementsMatch([]string{"Alice", "Bob", "Carol"}, names)
}

func (s *serviceSuite) TestSubmit_SanitizesSizingNotes() {
	g := s.createGroup("Notes")
	res, err := s.submissions.Submit(SubmitInput{
		GroupID: g.ID,
		Data:    s.data(`{"firstName":"A","lastName":"B","clothingType":"mens","sizingNotes":"<script>x</script>wide feet"}`),
	})
	s.Require().NoError(err)
	s.Equal("wide feet", res.Submission.Data.SizingNotes)
}

func (s *serviceSuite) TestSubmit_RecordsMetrics() {
	g := s.createGroup("Counted")
	_, err := s.submissions.Submit(SubmitInput{
		GroupID: g.ID, IsLeader: true, IsCrewLeader: true,
		Data: s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`),
	})
	s.Require().NoError(err)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.SubmissionsTotal.WithLabelValues("leader")))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.CrewsCreated))

	_, err = s.groups.ArchiveGroup(g.ID)
	s.Require().NoError(err)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.GroupTransitions.WithLabelValues("archived")))

	_, err = s.submissions.Submit(SubmitInput{
		GroupID: g.ID,
		Data:    s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`),
	})
	s.ErrorIs(err, ErrGroupClosed)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.RejectedSubmissions))
}

func (s *serviceSuite) TestUpdateAndDeleteSubmission() {
	g := s.createGroup("Edits")
	person := s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`)

	leader, err := s.submissions.Submit(SubmitInput{GroupID: g.ID, IsCrewLeader: true, Data: person})
	s.Require().NoError(err)
	member, err := s.submissions.Submit(SubmitInput{GroupID: g.ID, Data: person})
	s.Require().NoError(err)

	_, err = s.submissions.UpdateSubmission(member.Submission.ID, UpdateSubmissionInput{})
	s.ErrorIs(err, ErrNoSubmissionChanges)

	moved, err := s.submissions.UpdateSubmission(member.Submission.ID, UpdateSubmissionInput{
		CrewID:         leader.Submission.CrewID,
		PaysSeparately: boolPtr(true),
	})
	s.Require().NoError(err)
	s.Equal(*leader.Submission.CrewID, *moved.CrewID)
	s.True(moved.PaysSeparately)

	detached, err := s.submissions.UpdateSubmission(member.Submission.ID, UpdateSubmissionInput{ClearCrew: true})
	s.Require().NoError(err)
	s.Nil(detached.CrewID)

	newData := s.data(`{"firstName":"C","lastName":"D","clothingType":"womens","handwearType":"mittens"}`)
	edited, err := s.submissions.UpdateSubmission(member.Submission.ID, UpdateSubmissionInput{Data: &newData})
	s.Require().NoError(err)
	s.Equal("C", edited.Data.FirstName)

	_, err = s.submissions.UpdateSubmission("missing", UpdateSubmissionInput{ClearCrew: true})
	s.ErrorIs(err, ErrSubmissionNotFound)

	s.Require().NoError(s.submissions.DeleteSubmission(member.Submission.ID))
	s.ErrorIs(s.submissions.DeleteSubmission(member.Submission.ID), ErrSubmissionNotFound)
}

// Crews

func (s *serviceSuite) TestRenameAndDeleteCrew() {
	g := s.createGroup("Crew Ops")
	leader, err := s.submissions.Submit(SubmitInput{
		GroupID: g.ID, IsCrewLeader: true,
		Data: s.data(`{"firstName":"A","lastName":"B","clothingType":"mens"}`),
	})
	s.Require().NoError(err)
	crewID := *leader.Submission.CrewID

	renamed, err := s.crews.RenameCrew(crewID, strPtr("Night Owls"))
	s.Require().NoError(err)
	s.Equal("Night Owls", *renamed.Name)

	cleared, err := s.crews.RenameCrew(crewID, strPtr(""))
	s.Require().NoError(err)
	s.Nil(cleared.Name)

	s.Require().NoError(s.crews.DeleteCrew(crewID))
	got, err := s.groups.GetGroup(g.ID)
	s.Require().NoError(err)
	s.Nil(got.Submissions[0].CrewID)
	s.ErrorIs(s.crews.DeleteCrew(crewID), ErrCrewNotFound)
}

// Auth

func (s *serviceSuite) TestSeedAdminAndLogin() {
	_, err := s.auth.SeedAdmin(SeedAdminInput{Email: "staff@example.com", Password: "short"})
	s.ErrorIs(err, ErrPasswordTooShort)

	admin, err := s.auth.SeedAdmin(SeedAdminInput{Email: " Staff@Example.com ", Password: "correct-horse", Name: "Staff"})
	s.Require().NoError(err)
	s.Equal("staff@example.com", admin.Email)

	_, err = s.auth.Login(LoginInput{Email: "staff@example.com", Password: "wrong-password"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	s.ErrorIs(err, ErrInvalidCredentials)

	res, err := s.auth.Login(LoginInput{Email: "STAFF@example.com", Password: "correct-horse"})
	s.Require().NoError(err)
	s.NotEmpty(res.Token)

	me, err := s.auth.Authenticate(res.Token)
	s.Require().NoError(err)
	s.Equal(admin.ID, me.ID)

	_, err = s.auth.Authenticate("garbage")
	s.ErrorIs(err, ErrUnauthenticated)

	// Re-seeding resets the password instead of duplicating the admin.
	_, err = s.auth.SeedAdmin(SeedAdminInput{Email: "staff@example.com", Password: "battery-staple"})
	s.Require().NoError(err)
	s.Equal(int64(1), s.countRows(&models.Admin{}))
	_, err = s.auth.Login(LoginInput{Email: "staff@example.com", Password: "battery-staple"})
	s.NoError(err)
}
