package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, GenerateID())
}

func TestGenerateToken(t *testing.T) {
	token := GenerateToken()
	require.Len(t, token, 64)
	require.NotEqual(t, token, GenerateToken())
}

func TestConfigure(t *testing.T) {
	defer Configure(&bytes.Buffer{}, "info")

	tests := []struct {
		level string
		want  log.Level
	}{
		{level: "debug", want: log.DebugLevel},
		{level: " warn ", want: log.WarnLevel},
		{level: "bogus", want: log.InfoLevel},
	}
	for _, tc := range tests {
		Configure(&bytes.Buffer{}, tc.level)
		require.Equal(t, tc.want, Logger().GetLevel(), tc.level)
	}

	var buf bytes.Buffer
	Configure(&buf, "info")
	Info("hello", map[string]any{"k": "v"})
	Debug("hidden", nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "v", line["k"])
}

func TestJSONResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONResponse(c, http.StatusCreated, map[string]string{"id": "1"}, "created")
	require.JSONEq(t, `{"status":201,"message":"created","data":{"id":"1"}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONError(c, http.StatusNotFound, errors.New("user not found"), "not found")
	require.JSONEq(t, `{"status":404,"message":"not found","error":"user not found"}`, w.Body.String())
}
