package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newFeedbackRouter(t *testing.T, userNo uint) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	ctrl := NewFeedbackController(db)

	r := gin.New()
	r.Use(asUser(userNo))
	r.PUT("/api/feedback/:answerNo", ctrl.Update)
	r.DELETE("/api/feedback/:answerNo", ctrl.Delete)
	return r, mock
}

func TestFeedbackUpdateScopedToOwner(t *testing.T) {
	r, mock := newFeedbackRouter(t, 7)

	// Someone else's answer: the owner predicate matches nothing.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `pin_answers`").
		WithArgs(sqlmock.AnyArg(), "33", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPut, "/api/feedback/33", `{"answer_content":"updated"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "feedback not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackUpdateRequiresContent(t *testing.T) {
	r, mock := newFeedbackRouter(t, 7)

	w := doJSON(r, http.MethodPut, "/api/feedback/33", `{"answer_content":"  "}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackUpdateSucceedsForOwner(t *testing.T) {
	r, mock := newFeedbackRouter(t, 7)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `pin_answers`").
		WithArgs(sqlmock.AnyArg(), "33", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPut, "/api/feedback/33", `{"answer_content":"clearer now"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackDeleteScopedToOwner(t *testing.T) {
	r, mock := newFeedbackRouter(t, 7)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `pin_answers`").
		WithArgs("33", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodDelete, "/api/feedback/33", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackDeleteSucceedsForOwner(t *testing.T) {
	r, mock := newFeedbackRouter(t, 7)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `pin_answers`").
		WithArgs("33", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodDelete, "/api/feedback/33", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
