package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/config"
)

func newUploadRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	ctrl := NewUploadController(db)

	r := gin.New()
	r.Use(asUser(7))
	r.POST("/api/posts", ctrl.Create)
	return r, mock
}

func designForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="shot.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, w.WriteField("title", "landing page"))
	require.NoError(t, w.WriteField("desc", "first draft"))
	require.NoError(t, w.WriteField("issues", `["Spacing"]`))
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func postUpload(r *gin.Engine, body *bytes.Buffer, ctype string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func designBlobs(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(config.Get().UploadDir, "designs"))
	if err != nil {
		return nil
	}
	return entries
}

func TestUploadCreateInsertsPostImageAndLinks(t *testing.T) {
	r, mock := newUploadRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pin_posts`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO `pin_post_images`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery("SELECT `category_no` FROM `pin_categories`").
		WithArgs("Spacing").
		WillReturnRows(sqlmock.NewRows([]string{"category_no"}).AddRow(12))
	mock.ExpectExec("INSERT INTO `pin_post_categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, ctype := designForm(t)
	w := postUpload(r, body, ctype)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"postNo":3`)
	require.Contains(t, w.Body.String(), `"imageNo":8`)
	require.Contains(t, w.Body.String(), "/uploads/designs/")
	require.NotEmpty(t, designBlobs(t))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadCreateRollbackRemovesStoredBlob(t *testing.T) {
	r, mock := newUploadRouter(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pin_posts`").
		WillReturnError(gorm.ErrInvalidTransaction)
	mock.ExpectRollback()

	before := len(designBlobs(t))

	body, ctype := designForm(t)
	w := postUpload(r, body, ctype)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "failed to save post")
	// The blob written before the transaction must not survive it.
	require.Len(t, designBlobs(t), before)
	require.NoError(t, mock.ExpectationsWereMet())
}
