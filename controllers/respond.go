package controllers

import (
	"errors"
	"io"
	"net/http"

	"Meeple/errs"

	"github.com/gin-gonic/gin"
)

const invalidPayload = "Invalid JSON payload"

func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindAuthentication:
		return http.StatusUnauthorized
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindStateConflict:
		return http.StatusConflict
	case errs.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}

func failMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// bindBody decodes a JSON object body, answering 400 when it is not one.
// An empty body leaves dst untouched so the token can come from elsewhere
func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		failMsg(c, http.StatusBadRequest, invalidPayload)
		return false
	}
	return true
}
