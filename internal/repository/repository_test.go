package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestExamOrder(t *testing.T) {
	assert.Equal(t, "created_at desc", examOrder(""))
	assert.Equal(t, "start_time asc", examOrder("startTime,asc"))
	assert.Equal(t, "title desc", examOrder("title"))
	assert.Equal(t, "created_at desc", examOrder("password,asc"))
}

func TestTransitionStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "matching status", affected: 1, want: true},
		{name: "status already changed", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewExamRepository(db)

			mock.ExpectExec("UPDATE `exams` SET `status`").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.TransitionStatus(context.Background(), 3, model.ExamStatusPublished, model.ExamStatusActive)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCountQuestions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExamRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `exam_questions`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	n, err := repo.CountQuestions(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExamNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExamRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `exams`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 1)
	assert.True(t, errors.Is(err, util.ErrExamNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInProgressNone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExamAttemptRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `exam_attempts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := repo.FindInProgress(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmission(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	correct := true
	submission := func() *Submission {
		return &Submission{
			AttemptID:        5,
			SubmitStatus:     model.AttemptSubmitted,
			SubmittedAt:      now,
			TimeSpentSeconds: 600,
			Answers: []model.ExamAnswer{{
				AttemptID:    5,
				QuestionID:   11,
				AnswerType:   model.QuestionTypeMCQ,
				AnswerData:   []byte(`{"selectedOptionId":3}`),
				IsCorrect:    &correct,
				PointsEarned: decimal.NewFromInt(1),
				AutoGraded:   true,
				GradedAt:     &now,
			}},
			TotalScore:      decimal.NewFromInt(1),
			PercentageScore: decimal.NewFromInt(100),
			IsPassed:        true,
		}
	}

	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "submit grade and commit",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `exam_attempts` SET").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO `exam_answers`.*ON DUPLICATE KEY UPDATE").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("UPDATE `exam_attempts` SET").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "attempt no longer in progress",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `exam_attempts` SET").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: util.ErrAttemptNotInProgress,
		},
		{
			name: "answer upsert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE `exam_attempts` SET").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("INSERT INTO `exam_answers`").WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewExamAttemptRepository(db)
			tt.setupMock(mock)

			err := repo.SaveSubmission(context.Background(), submission())
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAddMembersSkipsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClassRepository(db)

	require.NoError(t, repo.AddMembers(context.Background(), 1, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClassRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `class_members`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := repo.IsMember(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
