package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func newAdminCategoryRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	ctrl := NewAdminCategoryController(db)

	// Admin category endpoints carry no session, mirroring the router.
	r := gin.New()
	r.POST("/admin/categories", ctrl.Create)
	r.POST("/admin/categories/merge", ctrl.Merge)
	r.PATCH("/admin/categories/:categoryNo/status", ctrl.SetStatus)
	return r, mock
}

func categoryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"category_no", "group_no", "category_name", "is_active"})
}

func TestAdminCategoryCreateDuplicateConflicts(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pin_categories`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/admin/categories",
		`{"group_no":2,"category_name":"Spacing"}`)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "category already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCategorySetStatusNotFound(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `pin_categories`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPatch, "/admin/categories/99/status", `{"is_active":0}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCategorySetStatusValidatesFlag(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	w := doJSON(r, http.MethodPatch, "/admin/categories/99/status", `{"is_active":2}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRejectsGroupMismatch(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `pin_categories`").
		WillReturnRows(categoryRows().
			AddRow(10, 1, "Spacing", 1).
			AddRow(11, 2, "Contrast", 1))
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/admin/categories/merge",
		`{"from_category_no":10,"to_category_no":11}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "categories must share a group")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRejectsInactiveTarget(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `pin_categories`").
		WillReturnRows(categoryRows().
			AddRow(10, 1, "Spacing", 1).
			AddRow(11, 1, "Whitespace", 0))
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/admin/categories/merge",
		`{"from_category_no":10,"to_category_no":11}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "merge target must be active")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRejectsMissingCategory(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `pin_categories`").
		WillReturnRows(categoryRows().AddRow(10, 1, "Spacing", 1))
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/admin/categories/merge",
		`{"from_category_no":10,"to_category_no":11}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "category not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeMovesLinksAndDeactivatesSource(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `pin_categories`").
		WillReturnRows(categoryRows().
			AddRow(10, 1, "Spacing", 1).
			AddRow(11, 1, "Whitespace", 1))
	mock.ExpectExec("INSERT IGNORE INTO pin_post_categories").
		WithArgs(uint(11), uint(10)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `pin_post_categories`").
		WithArgs(uint(10)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT IGNORE INTO pin_question_categories").
		WithArgs(uint(11), uint(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `pin_question_categories`").
		WithArgs(uint(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE `pin_categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/admin/categories/merge",
		`{"from_category_no":10,"to_category_no":11}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "merge complete")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRollsBackOnLinkCopyFailure(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `pin_categories`").
		WillReturnRows(categoryRows().
			AddRow(10, 1, "Spacing", 1).
			AddRow(11, 1, "Whitespace", 1))
	mock.ExpectExec("INSERT IGNORE INTO pin_post_categories").
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
	mock.ExpectRollback()

	w := doJSON(r, http.MethodPost, "/admin/categories/merge",
		`{"from_category_no":10,"to_category_no":11}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "merge failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRejectsSelfMerge(t *testing.T) {
	r, mock := newAdminCategoryRouter(t)

	w := doJSON(r, http.MethodPost, "/admin/categories/merge",
		`{"from_category_no":10,"to_category_no":10}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
