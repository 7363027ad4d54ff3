package repository_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/internal/modules/registration/repository"
	"anoa.com/eventtech/internal/testutil"
	"anoa.com/eventtech/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepo(t *testing.T) (repository.RegistrationRepository, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	return repository.NewRegistrationRepository(db), db
}

func create(t *testing.T, repo repository.RegistrationRepository, name, email, event string) *entity.Registration {
	r := &entity.Registration{Name: name, Email: email, College: "ITB", Event: event}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	r := create(t, repo, "  Ana ", " Ana@Example.COM ", " Hackathon ")
	assert.Equal(t, "Ana", r.Name)
	assert.Equal(t, "ana@example.com", r.Email)
	assert.Equal(t, "Hackathon", r.Event)
	assert.False(t, r.WinnerStatus)
	assert.False(t, r.RegistrationDate.IsZero())

	assert.True(t, repo.ExistsByEmailAndEvent(ctx, "ANA@example.com", "Hackathon"))
	assert.False(t, repo.ExistsByEmailAndEvent(ctx, "ana@example.com", "Tech Quiz"))

	err := repo.Create(ctx, &entity.Registration{Name: "Ana", Email: "ana@example.com", College: "ITB", Event: "Hackathon"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// same email, different event is fine
	create(t, repo, "Ana", "ana@example.com", "Tech Quiz")
}

func TestFindAllNewestFirst(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()

	old := create(t, repo, "Old", "old@example.com", "Hackathon")
	fresh := create(t, repo, "New", "new@example.com", "Hackathon")
	require.NoError(t, db.Model(old).Update("registration_date", time.Now().Add(-time.Hour)).Error)

	rows, err := repo.FindAll(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, fresh.ID, rows[0].ID)
	assert.Equal(t, old.ID, rows[1].ID)

	rows, err = repo.FindAll(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, old.ID, rows[0].ID)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestFindFiltered(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	a := create(t, repo, "A", "a@example.com", "Hackathon")
	create(t, repo, "B", "b@example.com", "Hackathon")
	create(t, repo, "C", "c@example.com", "Tech Quiz")
	require.NoError(t, repo.SetWinner(ctx, a.ID, true))

	rows, err := repo.FindFiltered(ctx, repository.RegistrationFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = repo.FindFiltered(ctx, repository.RegistrationFilter{Event: "Hackathon"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	winner := true
	rows, err = repo.FindFiltered(ctx, repository.RegistrationFilter{Event: "Hackathon", Winner: &winner})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)

	notWinner := false
	rows, err = repo.FindFiltered(ctx, repository.RegistrationFilter{Winner: &notWinner})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSetWinnerIsConditional(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	r := create(t, repo, "A", "a@example.com", "Hackathon")

	require.NoError(t, repo.SetWinner(ctx, r.ID, true))
	assert.ErrorIs(t, repo.SetWinner(ctx, r.ID, true), apperror.ErrConflict)

	count, err := repo.CountWinners(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.SetWinner(ctx, r.ID, false))
	assert.ErrorIs(t, repo.SetWinner(ctx, r.ID, false), apperror.ErrConflict)
	assert.ErrorIs(t, repo.SetWinner(ctx, 999, true), apperror.ErrNotFound)
}

func TestDeleteRemovesCertificateLog(t *testing.T) {
	repo, db := newRepo(t)
	ctx := context.Background()
	r := create(t, repo, "A", "a@example.com", "Hackathon")
	require.NoError(t, db.Create(&entity.CertificateLog{
		RegistrationID:  r.ID,
		CertificateType: entity.CertificateParticipation,
		CertificateID:   "PAR-1-1",
		GeneratedDate:   time.Now(),
	}).Error)

	require.NoError(t, repo.Delete(ctx, r.ID))
	_, err := repo.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var logs int64
	require.NoError(t, db.Model(&entity.CertificateLog{}).Count(&logs).Error)
	assert.Zero(t, logs)

	assert.ErrorIs(t, repo.Delete(ctx, r.ID), apperror.ErrNotFound)
}

func TestFindByIDsKeepsOrder(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	a := create(t, repo, "A", "a@example.com", "Hackathon")
	b := create(t, repo, "B", "b@example.com", "Hackathon")

	rows, err := repo.FindByIDs(ctx, []uint{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b.ID, rows[0].ID)
	assert.Equal(t, a.ID, rows[1].ID)

	rows, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchAndWinners(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	ana := create(t, repo, "Ana Putri", "ana@example.com", "Hackathon")
	create(t, repo, "Budi", "budi@example.com", "Tech Quiz")
	carl := create(t, repo, "Carl", "carl@example.com", "Coding Competition")

	rows, err := repo.Search(ctx, "putri", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ana.ID, rows[0].ID)

	rows, err = repo.Search(ctx, "QUIZ", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, repo.SetWinner(ctx, ana.ID, true))
	require.NoError(t, repo.SetWinner(ctx, carl.ID, true))

	winners, err := repo.FindWinners(ctx)
	require.NoError(t, err)
	require.Len(t, winners, 2)
	assert.Equal(t, "Carl", winners[0].Name)
	assert.Equal(t, "Ana Putri", winners[1].Name)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	create(t, repo, "Ana Putri", "ana@example.com", "Hackathon")
	underscored := create(t, repo, "Dewi", "dewi_s@example.com", "Tech Quiz")
	percent := create(t, repo, "100% Club", "club@example.com", "Web Design")

	rows, err := repo.Search(ctx, "%", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, percent.ID, rows[0].ID)

	rows, err = repo.Search(ctx, "_", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, underscored.ID, rows[0].ID)

	rows, err = repo.Search(ctx, `\`, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
