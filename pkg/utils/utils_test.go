package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count int    `json:"count" validate:"min=0"`
}

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindRequest(t *testing.T) {
	t.Run("should bind a valid body", func(t *testing.T) {
		v, err := BindRequest[payload](newContext(http.MethodPost, "/", `{"name":"abc","count":2}`))
		require.NoError(t, err)
		assert.Equal(t, payload{Name: "abc", Count: 2}, v)
	})

	t.Run("should reject invalid fields by json name", func(t *testing.T) {
		_, err := BindRequest[payload](newContext(http.MethodPost, "/", `{"name":"toolong","count":-1}`))
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "field 'name' failed rule 'max=5'")
		assert.Contains(t, err.Error(), "field 'count' failed rule 'min=0'")
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		_, err := BindRequest[payload](newContext(http.MethodPost, "/", `{`))
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}

func TestParams(t *testing.T) {
	c := newContext(http.MethodGet, "/?companyId=7&flag=true&bad=x", "")
	c.SetParamNames("id", "uuid")
	c.SetParamValues("12", "not-a-uuid")

	id, err := ParamInt(c, "id")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = ParamUUID(c, "uuid")
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))

	companyID, err := QueryInt(c, "companyId")
	require.NoError(t, err)
	assert.Equal(t, 7, *companyID)

	missing, err := QueryInt(c, "planId")
	require.NoError(t, err)
	assert.Nil(t, missing)

	flag, err := QueryBool(c, "flag", false)
	require.NoError(t, err)
	assert.True(t, flag)

	def, err := QueryBool(c, "absent", true)
	require.NoError(t, err)
	assert.True(t, def)

	_, err = QueryBool(c, "bad", false)
	assert.Error(t, err)
}
