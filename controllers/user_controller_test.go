package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pinglab/pingboard/utils"
)

func newUserRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	ctrl := NewUserController(db)

	r := gin.New()
	r.Use(asUser(7))
	r.PUT("/api/users/profile", ctrl.UpdateProfile)
	return r, mock
}

func TestUpdateProfileRequiresNickname(t *testing.T) {
	r, mock := newUserRouter(t)

	w := doJSON(r, http.MethodPut, "/api/users/profile", `{"user_nickname":"  "}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "nickname is required")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileVerifiesPasswordBeforeWrite(t *testing.T) {
	r, mock := newUserRouter(t)

	hash, err := utils.HashPassword("the-real-one")
	require.NoError(t, err)

	// Only the load runs; the wrong current password stops the update
	// before anything is written.
	mock.ExpectQuery("SELECT (.+) FROM `pin_users`").
		WillReturnRows(userRows(hash))

	w := doJSON(r, http.MethodPut, "/api/users/profile",
		`{"user_nickname":"Alice","current_pw":"wrong","new_pw":"next-one"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "current password does not match")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	r, mock := newUserRouter(t)

	hash, err := utils.HashPassword("the-real-one")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `pin_users`").
		WillReturnRows(userRows(hash))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `pin_users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPut, "/api/users/profile",
		`{"user_nickname":"Alice","user_grade":"PRO","current_pw":"the-real-one","new_pw":"next-one"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileWithoutPasswordChange(t *testing.T) {
	r, mock := newUserRouter(t)

	hash, err := utils.HashPassword("irrelevant")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `pin_users`").
		WillReturnRows(userRows(hash))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `pin_users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPut, "/api/users/profile",
		`{"user_nickname":"Alice","user_intro":"designer","user_grade":"not-a-grade"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
