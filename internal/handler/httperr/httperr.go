package httperr

import (
	"net/http"

	"cinebook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// Response is the public error body. Status is carried to ErrorHandler only.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Rule maps every error matching Target to a status and public message.
// Detail, when set, derives the response detail from the matched error.
type Rule struct {
	Target  error
	Status  int
	Message string
	Detail  func(err error) any
}

// AbortWithRules aborts with the first rule whose Target matches err,
// or 500 when none does. Order matters for errors that mark several targets.
func AbortWithRules(c *gin.Context, err error, rules []Rule) {
	for _, r := range rules {
		if !errs.Is(err, r.Target) {
			continue
		}
		var detail any
		if r.Detail != nil {
			detail = r.Detail(err)
		}
		AbortWithError(c, r.Status, err, r.Message, detail)
		return
	}
	AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

// AbortWithError records err on the context for the logging middleware
// and writes the public error body.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.Newf("%d %s", status, msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
