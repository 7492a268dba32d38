package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/domain/office"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Office geofence used across tests: Karachi, 50m radius.
const (
	testOfficeLat    = 24.8607
	testOfficeLon    = 67.0011
	testOfficeRadius = 50.0
)

// ~100m north of the office
const farLat = testOfficeLat + 0.0009

type fakeAttendanceRepo struct {
	records map[string]*attendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func (r *fakeAttendanceRepo) key(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	att, ok := r.records[r.key(userID, date)]
	if !ok {
		return nil, nil
	}
	cp := *att
	return &cp, nil
}

func (r *fakeAttendanceRepo) ClaimCheckIn(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	k := r.key(att.UserID, att.Date)
	if existing, ok := r.records[k]; ok {
		if existing.CheckInTime != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckInTime = att.CheckInTime
		existing.CheckInPicturePath = att.CheckInPicturePath
		existing.CheckInLatitude = att.CheckInLatitude
		existing.CheckInLongitude = att.CheckInLongitude
		existing.IsPresent = true
		existing.IsAbsent = false
		existing.IsLateCheckIn = att.IsLateCheckIn
		cp := *existing
		return cp, nil
	}
	r.nextID++
	att.ID = fmt.Sprintf("att-%d", r.nextID)
	att.IsPresent = true
	att.IsAbsent = false
	stored := att
	r.records[k] = &stored
	return att, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	k := r.key(att.UserID, att.Date)
	if _, ok := r.records[k]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored := att
	r.records[k] = &stored
	return nil
}

func (r *fakeAttendanceRepo) CreateAbsence(ctx context.Context, att attendance.Attendance) error {
	k := r.key(att.UserID, att.Date)
	if _, ok := r.records[k]; ok {
		return nil
	}
	r.nextID++
	att.ID = fmt.Sprintf("att-%d", r.nextID)
	stored := att
	r.records[k] = &stored
	return nil
}

func (r *fakeAttendanceRepo) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range r.records {
		if att.UserID == userID && !att.Date.Before(from) && !att.Date.After(to) {
			out = append(out, *att)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListActivities(ctx context.Context, filter attendance.ActivityFilter) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range r.records {
		if filter.UserID != nil && att.UserID != *filter.UserID {
			continue
		}
		if filter.StartDate != nil && att.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && att.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, *att)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

type fakeLeaveRepo struct {
	approved map[string][]leave.Leave // userID -> approved leaves
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{approved: make(map[string][]leave.Leave)}
}

func (r *fakeLeaveRepo) addApproved(userID string, start, end time.Time) {
	r.approved[userID] = append(r.approved[userID], leave.Leave{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Status:    leave.StatusApproved,
	})
}

func (r *fakeLeaveRepo) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	return l, nil
}

func (r *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	return leave.Leave{}, leave.ErrLeaveNotFound
}

func (r *fakeLeaveRepo) ListByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	return nil, nil
}

func (r *fakeLeaveRepo) ListPending(ctx context.Context) ([]leave.Leave, error) {
	return nil, nil
}

func (r *fakeLeaveRepo) Update(ctx context.Context, l leave.Leave) error {
	return nil
}

func (r *fakeLeaveRepo) HasApprovedLeaveOn(ctx context.Context, userID string, date time.Time) (bool, error) {
	for _, l := range r.approved[userID] {
		if !date.Before(l.StartDate) && !date.After(l.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

type fakeRegistry struct{}

func (fakeRegistry) GetActive(ctx context.Context) (office.Location, error) {
	return office.Location{
		ID:                    "office-1",
		Name:                  "Main Office",
		Latitude:              testOfficeLat,
		Longitude:             testOfficeLon,
		AllowedRadiusInMeters: testOfficeRadius,
		IsActive:              true,
	}, nil
}

func (fakeRegistry) Reconcile(ctx context.Context, cfg office.ReconcileConfig) (office.Location, error) {
	return office.Location{}, nil
}

func (fakeRegistry) SetActive(ctx context.Context, req office.SetLocationRequest) (office.Location, error) {
	return office.Location{}, nil
}

func (f fakeRegistry) WithinRange(ctx context.Context, lat, lon float64) (bool, float64, error) {
	distance := geo.DistanceMeters(lat, lon, testOfficeLat, testOfficeLon)
	return distance <= testOfficeRadius, distance, nil
}

type fakeFileService struct {
	uploads int
}

func (f *fakeFileService) UploadProfilePicture(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	f.uploads++
	return "profiles/" + userID + "/" + filename, nil
}

func (f *fakeFileService) UploadAttendanceProof(ctx context.Context, userID string, date time.Time, file io.Reader, filename string, checkType string) (string, error) {
	f.uploads++
	return "attendance/" + date.Format("2006-01-02") + "/" + userID + "-" + checkType + ".jpg", nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error { return nil }

func (f *fakeFileService) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return path, nil
}

type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

func newTestPhoto() (multipart.File, *multipart.FileHeader) {
	return fakeFile{bytes.NewReader([]byte("jpeg-bytes"))}, &multipart.FileHeader{Filename: "proof.jpg"}
}

type testEnv struct {
	svc            *AttendanceServiceImpl
	attendanceRepo *fakeAttendanceRepo
	userRepo       *fakeUserRepo
	leaveRepo      *fakeLeaveRepo
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()

	attendanceRepo := newFakeAttendanceRepo()
	userRepo := newFakeUserRepo(
		user.User{ID: "u1", FirstName: "Ayesha", LastName: "Khan", Email: "ayesha@example.com"},
		user.User{ID: "u2", FirstName: "Bilal", LastName: "Ahmed", Email: "bilal@example.com"},
	)
	leaveRepo := newFakeLeaveRepo()

	svc, err := NewAttendanceService(attendanceRepo, userRepo, leaveRepo, fakeRegistry{}, &fakeFileService{}, "09:00", "18:00")
	require.NoError(t, err)

	return &testEnv{
		svc:            svc,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		leaveRepo:      leaveRepo,
	}
}

// officeClock returns a clock fixed at the given office-local wall time.
// The returned instant is expressed in UTC (office is UTC+5).
func officeClock(year int, month time.Month, day, hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, hour-5, min, 0, 0, time.UTC)
	}
}

func checkInReq(userID string, lat, lon float64, withPhoto bool) attendance.CheckInRequest {
	req := attendance.CheckInRequest{UserID: userID, Latitude: lat, Longitude: lon}
	if withPhoto {
		req.File, req.FileHeader = newTestPhoto()
	}
	return req
}

func checkOutReq(userID string, lat, lon float64, withPhoto bool) attendance.CheckOutRequest {
	req := attendance.CheckOutRequest{UserID: userID, Latitude: lat, Longitude: lon}
	if withPhoto {
		req.File, req.FileHeader = newTestPhoto()
	}
	return req
}

func TestCheckInOnTime(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0) // exactly at start, not late

	result, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	assert.False(t, result.Attendance.IsLateCheckIn)
	assert.True(t, result.Attendance.IsPresent)
	assert.Equal(t, "2025-03-10", result.Attendance.Date)
	assert.NotNil(t, result.Attendance.CheckInTime)
	assert.Equal(t, "Check-in successful", result.Message)
}

func TestCheckInLate(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 1)

	result, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	assert.True(t, result.Attendance.IsLateCheckIn)
	assert.Contains(t, result.Message, "late")
}

func TestCheckInUnknownUser(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("ghost", testOfficeLat, testOfficeLon, true))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCheckInTwice(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	_, err = env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInOutOfRange(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", farLat, testOfficeLon, true))

	var outOfRange *attendance.OutOfRangeError
	require.True(t, errors.As(err, &outOfRange))
	assert.Greater(t, outOfRange.DistanceMeters, testOfficeRadius)
	assert.Equal(t, testOfficeRadius, outOfRange.AllowedMeters)
	assert.Contains(t, outOfRange.Error(), "too far from the office")
}

func TestCheckInOutOfRangeBeforePhotoCheck(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	// Both violations present; the geofence error wins
	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", farLat, testOfficeLon, false))

	var outOfRange *attendance.OutOfRangeError
	assert.True(t, errors.As(err, &outOfRange))
}

func TestCheckInPhotoRequired(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, false))
	assert.ErrorIs(t, err, attendance.ErrPhotoRequired)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 18, 0)

	_, err := env.svc.CheckOut(context.Background(), checkOutReq("u1", testOfficeLat, testOfficeLon, true))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOutAtEndOfDay(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	env.svc.now = officeClock(2025, 3, 10, 18, 0) // exactly at end, not early
	result, err := env.svc.CheckOut(context.Background(), checkOutReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	assert.False(t, result.Attendance.IsEarlyCheckOut)
	assert.NotNil(t, result.Attendance.CheckOutTime)
	assert.Equal(t, "Check-out successful", result.Message)
}

func TestCheckOutEarly(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	env.svc.now = officeClock(2025, 3, 10, 17, 59)
	result, err := env.svc.CheckOut(context.Background(), checkOutReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	assert.True(t, result.Attendance.IsEarlyCheckOut)
	assert.Contains(t, result.Message, "early")
}

func TestCheckOutTwice(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	env.svc.now = officeClock(2025, 3, 10, 18, 0)
	_, err = env.svc.CheckOut(context.Background(), checkOutReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	_, err = env.svc.CheckOut(context.Background(), checkOutReq("u1", testOfficeLat, testOfficeLon, true))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOutOutOfRange(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	env.svc.now = officeClock(2025, 3, 10, 18, 0)
	_, err = env.svc.CheckOut(context.Background(), checkOutReq("u1", farLat, testOfficeLon, true))

	var outOfRange *attendance.OutOfRangeError
	assert.True(t, errors.As(err, &outOfRange))
}

func TestGetToday(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	result, err := env.svc.GetToday(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	result, err = env.svc.GetToday(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "2025-03-10", result.Date)
}

func TestBuildMonthlyStats(t *testing.T) {
	date := func(day int) time.Time {
		return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
	}

	var records []attendance.Attendance
	for i := 1; i <= 15; i++ {
		records = append(records, attendance.Attendance{UserID: "u1", Date: date(i), IsPresent: true})
	}
	for i := 16; i <= 18; i++ {
		records = append(records, attendance.Attendance{UserID: "u1", Date: date(i), IsAbsent: true})
	}
	// Leave-covered rows: neither present nor absent
	for i := 19; i <= 20; i++ {
		records = append(records, attendance.Attendance{UserID: "u1", Date: date(i)})
	}

	stats := buildMonthlyStats(records)

	assert.Equal(t, 15, stats.TotalPresent)
	assert.Equal(t, 3, stats.TotalAbsent)
	assert.Equal(t, 75.0, stats.PresentPercentage)
	assert.Equal(t, 15.0, stats.AbsentPercentage)
	assert.Len(t, stats.DailyAttendances, 20)
}

func TestBuildMonthlyStatsEmpty(t *testing.T) {
	stats := buildMonthlyStats(nil)

	assert.Equal(t, 0, stats.TotalPresent)
	assert.Equal(t, 0, stats.TotalAbsent)
	assert.Equal(t, 0.0, stats.PresentPercentage)
	assert.Equal(t, 0.0, stats.AbsentPercentage)
}

func TestMonthlyStatsUnknownUser(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.MonthlyStats(context.Background(), "ghost", 2025, 3)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDecideAbsence(t *testing.T) {
	present := &attendance.Attendance{IsPresent: true}
	neutral := &attendance.Attendance{}
	absent := &attendance.Attendance{IsAbsent: true}

	cases := []struct {
		name     string
		existing *attendance.Attendance
		onLeave  bool
		want     absenceAction
	}{
		{"no record, on leave", nil, true, absenceCreateNeutral},
		{"no record, no leave", nil, false, absenceCreateAbsent},
		{"present, no leave", present, false, absenceSkip},
		{"present, on leave", present, true, absenceSkip},
		{"not present, on leave", neutral, true, absenceSkip},
		{"not present, no leave", neutral, false, absenceSetAbsent},
		{"already absent, no leave", absent, false, absenceSkip},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, decideAbsence(c.existing, c.onLeave))
		})
	}
}

func TestMarkAbsent(t *testing.T) {
	env := newTestService(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// u2 has approved leave covering the date
	env.leaveRepo.addApproved("u2", date, date)

	marked, err := env.svc.MarkAbsent(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, marked) // only u1

	// u1 got an absent row
	att, err := env.attendanceRepo.GetByUserAndDate(context.Background(), "u1", date)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.True(t, att.IsAbsent)
	assert.False(t, att.IsPresent)

	// u2 got a neutral row, not marked absent
	att, err = env.attendanceRepo.GetByUserAndDate(context.Background(), "u2", date)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.False(t, att.IsAbsent)
	assert.False(t, att.IsPresent)
}

func TestMarkAbsentSkipsPresent(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 10, 9, 0)

	_, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	marked, err := env.svc.MarkAbsent(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, marked) // u2 only

	att, err := env.attendanceRepo.GetByUserAndDate(context.Background(), "u1", date)
	require.NoError(t, err)
	assert.True(t, att.IsPresent)
	assert.False(t, att.IsAbsent)
}

func TestMarkAbsentIdempotent(t *testing.T) {
	env := newTestService(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	marked, err := env.svc.MarkAbsent(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	marked, err = env.svc.MarkAbsent(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
}

func TestCheckInClaimsAbsenceRow(t *testing.T) {
	env := newTestService(t)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Marker ran first (e.g. manual trigger), then the user checks in late
	_, err := env.svc.MarkAbsent(context.Background(), date)
	require.NoError(t, err)

	env.svc.now = officeClock(2025, 3, 10, 20, 0)
	result, err := env.svc.CheckIn(context.Background(), checkInReq("u1", testOfficeLat, testOfficeLon, true))
	require.NoError(t, err)

	assert.True(t, result.Attendance.IsPresent)
	assert.False(t, result.Attendance.IsAbsent)
	assert.True(t, result.Attendance.IsLateCheckIn)
}

func TestListActivitiesDefaultsToLast30Days(t *testing.T) {
	env := newTestService(t)
	env.svc.now = officeClock(2025, 3, 15, 12, 0)

	for _, d := range []time.Time{
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
	} {
		err := env.attendanceRepo.CreateAbsence(context.Background(), attendance.Attendance{
			UserID:   "u1",
			Date:     d,
			IsAbsent: true,
		})
		require.NoError(t, err)
	}

	// No explicit range: January's row falls outside the default window
	result, err := env.svc.ListActivities(context.Background(), attendance.ActivityFilter{})
	require.NoError(t, err)
	assert.Len(t, result, 2)

	// An explicit range still reaches older rows
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	result, err = env.svc.ListActivities(context.Background(), attendance.ActivityFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, result, 3)
}
