package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newPinRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	ctrl := NewPinController(db)

	r := gin.New()
	r.Use(asUser(7))
	r.POST("/api/pins", ctrl.Create)
	r.POST("/api/pins/:pinNo/answers", ctrl.CreateAnswer)
	return r, mock
}

func TestPinCreateLinksCategoryInOneTransaction(t *testing.T) {
	r, mock := newPinRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pin_questions`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT `category_no` FROM `pin_categories`").
		WithArgs("Spacing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"category_no"}).AddRow(12))
	mock.ExpectExec("INSERT INTO `pin_question_categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/api/pins",
		`{"postNo":3,"imageNo":4,"x":0.41,"y":0.87,"question":"is this gap intended?","issue":"Spacing"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"pinNo":5`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPinCreateRollsBackOnUnknownIssue(t *testing.T) {
	r, mock := newPinRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pin_questions`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT `category_no` FROM `pin_categories`").
		WillReturnRows(sqlmock.NewRows([]string{"category_no"}))
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/api/pins",
		`{"postNo":3,"imageNo":4,"x":0.41,"y":0.87,"question":"hm","issue":"NoSuchIssue"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "category lookup failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPinCreateRequiresCoordinates(t *testing.T) {
	r, mock := newPinRouter(t)

	w := doJSON(r, http.MethodPost, "/api/pins",
		`{"postNo":3,"imageNo":4,"question":"hm","issue":"Spacing"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "missing pin data")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnswerValidation(t *testing.T) {
	r, mock := newPinRouter(t)

	w := doJSON(r, http.MethodPost, "/api/pins/abc/answers", `{"content":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/pins/3/answers", `{"content":"  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}
