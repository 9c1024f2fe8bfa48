package repository

import (
	"testing"
	"time"

	"contacts_app/internal/apperr"
	"contacts_app/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory store with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Contact{}))
	return db
}

// seedUser creates a confirmed user with the given email and role
func seedUser(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Username: "testuser", Email: email, Password: "hash", Role: role, Confirmed: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

// testContact builds a contact with the given identifying fields
func testContact(name, surname, email, phone string) *domain.Contact {
	return &domain.Contact{
		Name:           name,
		Surname:        surname,
		Email:          email,
		Phone:          phone,
		AdditionalInfo: "some info",
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	birthday := domain.NewDate(1990, time.June, 15)
	data := testContact("Alice", "Smith", "alice@test.com", "1234567890")
	data.Birthday = &birthday

	created, err := repo.Create(user, data)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	require.False(t, created.UpdatedAt.IsZero())

	got, err := repo.GetByID(user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Smith", got.Surname)
	assert.Equal(t, "alice@test.com", got.Email)
	assert.Equal(t, "1234567890", got.Phone)
	assert.Equal(t, "some info", got.AdditionalInfo)
	require.NotNil(t, got.Birthday)
	assert.Equal(t, "1990-06-15", got.Birthday.Format(domain.DateLayout))
	assert.Equal(t, user.ID, got.UserID)
}

func TestGetByID_DoesNotLeakOtherUsersContacts(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	alice := seedUser(t, db, "alice@test.com", domain.RoleUser)
	bob := seedUser(t, db, "bob@test.com", domain.RoleUser)

	created, err := repo.Create(alice, testContact("Carol", "Jones", "carol@test.com", "1112223333"))
	require.NoError(t, err)

	// The contact exists but belongs to alice: bob sees not-found, not forbidden
	_, err = repo.GetByID(bob, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	// Same isolation for update and delete
	_, err = repo.Update(bob, created.ID, testContact("Xxx", "Yyy", "x@test.com", "9998887777"))
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	_, err = repo.Delete(bob, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	// And the list shows nothing for bob
	contacts, err := repo.List(bob, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestList_OrderAndPagination(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	var ids []uint
	for _, c := range []*domain.Contact{
		testContact("Aaa", "Bbb", "a@test.com", "1000000001"),
		testContact("Ccc", "Ddd", "c@test.com", "1000000002"),
		testContact("Eee", "Fff", "e@test.com", "1000000003"),
	} {
		created, err := repo.Create(user, c)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// Insertion order by id, skip one, take two
	page, err := repo.List(user, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)
}

func TestUpdate_FullReplace(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	birthday := domain.NewDate(1985, time.March, 3)
	first := testContact("Alice", "Smith", "alice@test.com", "1234567890")
	first.Birthday = &birthday
	created, err := repo.Create(user, first)
	require.NoError(t, err)

	// Every mutable field comes from the replacement, including the nil birthday
	second := testContact("Berta", "Brown", "berta@test.com", "0987654321")
	second.AdditionalInfo = "replaced"
	updated, err := repo.Update(user, created.ID, second)
	require.NoError(t, err)
	assert.Equal(t, "Berta", updated.Name)
	assert.Equal(t, "Brown", updated.Surname)
	assert.Equal(t, "berta@test.com", updated.Email)
	assert.Equal(t, "0987654321", updated.Phone)
	assert.Equal(t, "replaced", updated.AdditionalInfo)
	assert.Nil(t, updated.Birthday)
	assert.Equal(t, created.ID, updated.ID)
}

func TestDelete_SecondDeleteIsNotFound(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	created, err := repo.Create(user, testContact("Alice", "Smith", "alice@test.com", "1234567890"))
	require.NoError(t, err)

	deleted, err := repo.Delete(user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID) // The removed record comes back

	_, err = repo.Delete(user, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	_, err = repo.GetByID(user, created.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestCreate_DuplicateEmailIsConflictAcrossUsers(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	alice := seedUser(t, db, "alice@test.com", domain.RoleUser)
	bob := seedUser(t, db, "bob@test.com", domain.RoleUser)

	_, err := repo.Create(alice, testContact("Carol", "Jones", "carol@test.com", "1112223333"))
	require.NoError(t, err)

	// Email uniqueness is global, not per user
	_, err = repo.Create(bob, testContact("Other", "Name", "carol@test.com", "4445556666"))
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// Phone uniqueness is global as well
	_, err = repo.Create(bob, testContact("Other", "Name", "other@test.com", "1112223333"))
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestSearch_CaseInsensitiveAcrossFields(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	_, err := repo.Create(user, testContact("Ann", "Lee", "a@x.com", "1234567890"))
	require.NoError(t, err)
	_, err = repo.Create(user, testContact("Bob", "Stone", "bob@other.org", "9876543210"))
	require.NoError(t, err)

	byName, err := repo.Search(user, "ANN")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ann", byName[0].Name)

	byEmail, err := repo.Search(user, "x.com")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "a@x.com", byEmail[0].Email)

	bySurname, err := repo.Search(user, "stone")
	require.NoError(t, err)
	require.Len(t, bySurname, 1)

	byPhone, err := repo.Search(user, "98765")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)

	none, err := repo.Search(user, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearch_WildcardsAreLiteralAndEmptyQueryMatchesNothing(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	_, err := repo.Create(user, testContact("Percent%Here", "Lee", "pct@test.com", "1234567890"))
	require.NoError(t, err)
	_, err = repo.Create(user, testContact("PercentXHere", "Lee", "pcx@test.com", "0987654321"))
	require.NoError(t, err)

	// A % in the query matches itself, not any character run
	matches, err := repo.Search(user, "percent%")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "pct@test.com", matches[0].Email)

	// Same for underscore
	matches, err = repo.Search(user, "percent_")
	require.NoError(t, err)
	assert.Empty(t, matches)

	// An empty query returns nothing rather than every contact
	matches, err = repo.Search(user, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestBirthdayInWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		birthday domain.Date
		want     bool
	}{
		{"five days ahead", domain.NewDate(1990, time.June, 15), true},
		{"same day", domain.NewDate(1990, time.June, 10), true},
		{"window boundary", domain.NewDate(1990, time.June, 17), true},
		{"ten days ahead", domain.NewDate(1990, time.June, 20), false},
		{"passed yesterday, no rollover", domain.NewDate(1990, time.June, 9), false},
		{"different month", domain.NewDate(1990, time.December, 24), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, birthdayInWindow(tc.birthday, now))
		})
	}

	// Feb 29 normalizes to Mar 1 in non-leap years
	feb29 := domain.NewDate(2000, time.February, 29)
	assert.True(t, birthdayInWindow(feb29, time.Date(2025, time.February, 25, 0, 0, 0, 0, time.UTC)))
	assert.False(t, birthdayInWindow(feb29, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)))
}

func TestUpcomingBirthdays(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewContactRepository(db)
	user := seedUser(t, db, "owner@test.com", domain.RoleUser)

	now := time.Now()
	// A birthday on today's month and day is always inside the window
	today := domain.NewDate(1990, now.Month(), now.Day())
	soon := testContact("Today", "Person", "today@test.com", "1000000001")
	soon.Birthday = &today
	_, err := repo.Create(user, soon)
	require.NoError(t, err)

	// Yesterday's month and day is either just passed or ~a year ahead; excluded either way
	y := now.AddDate(0, 0, -1)
	passed := domain.NewDate(1990, y.Month(), y.Day())
	late := testContact("Missed", "Person", "missed@test.com", "1000000002")
	late.Birthday = &passed
	_, err = repo.Create(user, late)
	require.NoError(t, err)

	// No birthday recorded
	_, err = repo.Create(user, testContact("Nobday", "Person", "nobday@test.com", "1000000003"))
	require.NoError(t, err)

	upcoming, err := repo.UpcomingBirthdays(user)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Today", upcoming[0].Name)
}
