package user

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/repository/memory/memorytest"
	coremocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/canteen-wallet/mocks/port/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserUseCase(f *memorytest.Fixture) *UserUseCase {
	return NewUserUseCase(f.UoW, f.IDs, f.Clock, f.Logger)
}

func strPtr(s string) *string { return &s }

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Sequential wallet numbers", func(t *testing.T) {
		f := memorytest.New(t)
		uc := newUserUseCase(f)

		student, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{
			Name: "Ana Cruz", Email: "Ana@School.edu", Role: "student", GradeLevel: "Grade 5", Section: "Rizal",
		})
		require.NoError(t, err)
		assert.Equal(t, "0001", student.WalletID)
		assert.Equal(t, "ana@school.edu", student.Email)
		assert.Equal(t, int64(0), student.Balance())
		assert.Equal(t, "Grade 5", student.Profile.Student.GradeLevel)

		staff, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Ben Reyes", Role: "STAFF"})
		require.NoError(t, err)
		assert.Equal(t, "0002", staff.WalletID)

		stored, err := uc.GetUser(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, "0001", stored.WalletID)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		f := memorytest.New(t)
		uc := newUserUseCase(f)

		_, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Ana", Email: "ana@school.edu", Role: "staff"})
		require.NoError(t, err)

		_, err = uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Ana Two", Email: " ANA@school.edu", Role: "staff"})
		assert.ErrorIs(t, err, errs.ErrDuplicateUser)

		next, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Carl", Role: "admin"})
		require.NoError(t, err)
		assert.Equal(t, "0002", next.WalletID, "a rejected registration does not consume a wallet number")
	})

	t.Run("Parent links must be existing students", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedStudent(t, "s-1", "Ana Cruz", "ana@school.edu", "Kinder")
		f.SeedUser(t, "staff-1", "Ben Reyes", "", "", "", 0)
		uc := newUserUseCase(f)

		_, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Maria", Role: "parent", LinkedStudentIDs: []string{"s-1", "ghost"}})
		assert.ErrorIs(t, err, errs.ErrUserNotFound)

		_, err = uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Maria", Role: "parent", LinkedStudentIDs: []string{"staff-1"}})
		assert.ErrorIs(t, err, errs.ErrInvalidProfile)

		parent, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Maria", Role: "parent", LinkedStudentIDs: []string{"s-1"}})
		require.NoError(t, err)

		students, err := uc.GetLinkedStudents(ctx, parent.ID)
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "s-1", students[0].ID)
		assert.True(t, entity.IsRestrictedGrade(students[0].Profile.Student.GradeLevel))
	})

	t.Run("Invalid profiles", func(t *testing.T) {
		f := memorytest.New(t)
		uc := newUserUseCase(f)

		testCases := []struct {
			name string
			req  usecase.RegisterUserRequest
			want error
		}{
			{"Unknown role", usecase.RegisterUserRequest{Name: "X", Role: "janitor"}, errs.ErrInvalidRole},
			{"Student without grade", usecase.RegisterUserRequest{Name: "X", Role: "student"}, errs.ErrInvalidProfile},
			{"Unknown grade", usecase.RegisterUserRequest{Name: "X", Role: "student", GradeLevel: "Grade 13"}, errs.ErrInvalidProfile},
			{"Missing name", usecase.RegisterUserRequest{Role: "staff"}, errs.ErrInvalidRequest},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := uc.RegisterUser(ctx, tc.req)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

// Concurrent registrations must all receive distinct wallet numbers
func TestRegisterUserConcurrentWalletIDs(t *testing.T) {
	f := memorytest.New(t)
	uc := newUserUseCase(f)

	const registrations = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	walletIDs := make(map[string]string)

	for i := 0; i < registrations; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := uc.RegisterUser(context.Background(), usecase.RegisterUserRequest{
				Name:  fmt.Sprintf("Staff %d", i),
				Email: fmt.Sprintf("staff%d@school.edu", i),
				Role:  "staff",
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			walletIDs[user.WalletID] = user.ID
		}(i)
	}
	wg.Wait()

	require.Len(t, walletIDs, registrations)
	for n := 1; n <= registrations; n++ {
		assert.Contains(t, walletIDs, entity.FormatWalletID(int64(n)))
	}
}

func TestRegisterCard(t *testing.T) {
	ctx := context.Background()

	t.Run("Card is stored as RFID and wallet number stays sequential", func(t *testing.T) {
		f := memorytest.New(t)
		uc := newUserUseCase(f)
		registered, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Ana", Email: "ana@school.edu", Role: "staff"})
		require.NoError(t, err)

		user, err := uc.RegisterCard(ctx, "ANA@school.edu", " ABC123 ")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "ABC123", user.RFID)
		assert.Equal(t, "0001", user.WalletID)
		assert.Equal(t, "ABC123", f.User(t, user.ID).RFID)
	})

	t.Run("User without wallet number gets the next one", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana", "ana@school.edu", "", "", 0)
		uc := newUserUseCase(f)

		user, err := uc.RegisterCard(ctx, "ana@school.edu", "ABC123")

		require.NoError(t, err)
		assert.Equal(t, "0001", user.WalletID)
	})

	t.Run("Rebinding the same card is allowed", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana", "ana@school.edu", "ABC123", "0001", 0)
		uc := newUserUseCase(f)

		_, err := uc.RegisterCard(ctx, "ana@school.edu", "ABC123")

		assert.NoError(t, err)
	})

	t.Run("Card held by someone else", func(t *testing.T) {
		f := memorytest.New(t)
		f.SeedUser(t, "u-1", "Ana", "ana@school.edu", "ABC123", "0001", 0)
		f.SeedUser(t, "u-2", "Ben", "ben@school.edu", "", "0002", 0)
		uc := newUserUseCase(f)

		_, err := uc.RegisterCard(ctx, "ben@school.edu", "ABC123")

		assert.ErrorIs(t, err, errs.ErrCardAlreadyRegistered)
		assert.Empty(t, f.User(t, "u-2").RFID)
	})

	t.Run("Invalid input", func(t *testing.T) {
		f := memorytest.New(t)
		uc := newUserUseCase(f)

		_, err := uc.RegisterCard(ctx, "nobody@school.edu", "ABC123")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)

		_, err = uc.RegisterCard(ctx, "nobody@school.edu", "  ")
		assert.ErrorIs(t, err, errs.ErrInvalidCard)

		_, err = uc.RegisterCard(ctx, "", "ABC123")
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestProfileChanges(t *testing.T) {
	ctx := context.Background()
	f := memorytest.New(t)
	f.SeedStudent(t, "s-1", "Ana Cruz", "ana@school.edu", "Grade 5")
	f.SeedUser(t, "staff-1", "Ben Reyes", "ben@school.edu", "", "", 0)
	uc := newUserUseCase(f)

	t.Run("Student details", func(t *testing.T) {
		user, err := uc.UpdateProfile(ctx, "s-1", usecase.UpdateProfileRequest{GradeLevel: strPtr("Grade 6"), Name: strPtr("Ana C.")})

		require.NoError(t, err)
		assert.Equal(t, "Grade 6", user.Profile.Student.GradeLevel)
		assert.Equal(t, "Ana C.", f.User(t, "s-1").Name)
	})

	t.Run("Staff have no grade", func(t *testing.T) {
		_, err := uc.UpdateProfile(ctx, "staff-1", usecase.UpdateProfileRequest{Section: strPtr("A")})

		assert.ErrorIs(t, err, errs.ErrInvalidProfile)
	})

	t.Run("Link student by email", func(t *testing.T) {
		parent, err := uc.RegisterUser(ctx, usecase.RegisterUserRequest{Name: "Maria", Role: "parent"})
		require.NoError(t, err)

		linked, err := uc.LinkStudent(ctx, parent.ID, " ANA@school.edu ")
		require.NoError(t, err)
		assert.Equal(t, []string{"s-1"}, linked.Profile.Parent.LinkedStudentIDs)

		_, err = uc.LinkStudent(ctx, parent.ID, "ben@school.edu")
		assert.ErrorIs(t, err, errs.ErrInvalidProfile)

		_, err = uc.GetLinkedStudents(ctx, "staff-1")
		assert.ErrorIs(t, err, errs.ErrInvalidProfile)
	})

	t.Run("Lookup by email", func(t *testing.T) {
		user, err := uc.FindUserByEmail(ctx, "Ben@School.edu")
		require.NoError(t, err)
		assert.Equal(t, "staff-1", user.ID)

		_, err = uc.FindUserByEmail(ctx, " ")
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestGetUsersWithMocks(t *testing.T) {
	mockUoW := persistencemocks.NewMockUnitOfWork(t)
	mockRepo := persistencemocks.NewMockUserRepository(t)
	mockIDs := coremocks.NewMockIDGenerator(t)
	mockTime := coremocks.NewMockTimeProvider(t)
	mockLogger := coremocks.NewMockLogger(t)
	uc := NewUserUseCase(mockUoW, mockIDs, mockTime, mockLogger)

	t.Run("Empty list does not hit the store", func(t *testing.T) {
		users, err := uc.GetUsers(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("Missing ID", func(t *testing.T) {
		_, err := uc.GetUser(context.Background(), "")

		assert.Equal(t, errs.ErrInvalidUserID, err)
	})

	t.Run("Lookup by IDs", func(t *testing.T) {
		expected := []*entity.User{{ID: "s-1"}}
		mockUoW.EXPECT().GetUserRepository(context.Background()).Return(mockRepo).Once()
		mockRepo.EXPECT().GetByIDs(context.Background(), []string{"s-1", "s-2"}).Return(expected, nil).Once()

		users, err := uc.GetUsers(context.Background(), []string{"s-1", "s-2"})

		require.NoError(t, err)
		assert.Equal(t, expected, users)
	})
}
