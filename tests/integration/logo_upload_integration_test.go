package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
)

var logoPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func (suite *POSWorkflowTestSuite) uploadLogo(filename string, content []byte) (int, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("logo", filename)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/logo", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w.Code, response
}

// TestLogoUploadIsServed uploads a logo and fetches it back through the uploads route
func (suite *POSWorkflowTestSuite) TestLogoUploadIsServed() {
	code, response := suite.uploadLogo("logo.png", logoPNG)
	suite.Require().Equal(http.StatusOK, code, response)

	profile := response["data"].(map[string]interface{})
	key := profile["logo_key"].(string)
	suite.NotEmpty(key)
	suite.Equal("/api/v1/uploads/"+key, profile["logo_url"])
	suite.FileExists(filepath.Join(suite.uploadDir, key))

	req := httptest.NewRequest(http.MethodGet, profile["logo_url"].(string), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("image/png", w.Header().Get("Content-Type"))
	suite.Equal(logoPNG, w.Body.Bytes())

	// The stored profile keeps the key
	code, response = suite.request(http.MethodGet, "/api/v1/profile", nil)
	suite.Equal(http.StatusOK, code)
	suite.Equal(key, response["data"].(map[string]interface{})["logo_key"])
}

// TestLogoReplacementRemovesOldFile checks that a second upload replaces the stored file
func (suite *POSWorkflowTestSuite) TestLogoReplacementRemovesOldFile() {
	_, first := suite.uploadLogo("first.png", logoPNG)
	firstKey := first["data"].(map[string]interface{})["logo_key"].(string)

	_, second := suite.uploadLogo("second.png", logoPNG)
	secondKey := second["data"].(map[string]interface{})["logo_key"].(string)

	suite.NotEqual(firstKey, secondKey)
	_, err := os.Stat(filepath.Join(suite.uploadDir, firstKey))
	suite.True(os.IsNotExist(err))
	suite.FileExists(filepath.Join(suite.uploadDir, secondKey))
}

// TestLogoUploadRejectsNonPNG checks that invalid files leave nothing behind
func (suite *POSWorkflowTestSuite) TestLogoUploadRejectsNonPNG() {
	code, response := suite.uploadLogo("logo.png", []byte("plain text"))
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("INVALID_FILE_FORMAT", response["error"].(map[string]interface{})["code"])

	entries, err := os.ReadDir(suite.uploadDir)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

// TestLogoUploadRequiresAdmin checks the scope guard on uploads
func (suite *POSWorkflowTestSuite) TestLogoUploadRequiresAdmin() {
	suite.scopes = nil
	code, response := suite.uploadLogo("logo.png", logoPNG)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("INSUFFICIENT_SCOPE", response["error"].(map[string]interface{})["code"])
}
