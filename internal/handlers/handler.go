// internal/handlers/handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"reflect"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/middleware"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

const maxMultipartMemory = 32 << 20

func principal(c *gin.Context) scope.Principal {
	if p, ok := c.Get(middleware.ContextPrincipal); ok {
		if principal, ok := p.(scope.Principal); ok {
			return principal
		}
	}
	return scope.Principal{}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return principal(c).UserID
}

func claims(c *gin.Context) *utils.JWTClaims {
	if v, ok := c.Get(middleware.ContextClaims); ok {
		if cl, ok := v.(*utils.JWTClaims); ok {
			return cl
		}
	}
	return nil
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidID))
		return uuid.Nil, false
	}
	return id, true
}

func listQuery(c *gin.Context) utils.ListQuery {
	return utils.GetListQuery(c)
}

// bindPayload validates the JSON body against the rule set registered
// under key and decodes it into dst. It answers 400/422 itself and
// returns false when the handler must stop.
func bindPayload(c *gin.Context, key validation.Key, dst interface{}) bool {
	return bindPayloadNested(c, key, dst, nil)
}

// bindPayloadNested also validates the object under each field of nested
// with its own rule set, reporting failures as "field.child".
func bindPayloadNested(c *gin.Context, key validation.Key, dst interface{}, nested map[string]validation.Key) bool {
	lang := utils.GetLangFromContext(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidPayload))
		return false
	}

	data := validation.Data{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidPayload))
			return false
		}
	}

	errs := validation.Check(key, data)
	for field, nestedKey := range nested {
		child, ok := data[field].(map[string]interface{})
		if !ok {
			continue
		}
		errs.Merge(field, validation.Check(nestedKey, validation.Data(child)))
	}
	if errs.HasErrors() {
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyValidationFailed), errs)
		return false
	}

	if dst == nil || len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		fields := undecodableFields(body, dst)
		if len(fields) == 0 {
			logrus.WithError(err).Warn("payload passed validation but could not be decoded")
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidPayload))
			return false
		}
		errs := validation.Errors{}
		for _, field := range fields {
			errs.Add(field, "Invalid value")
		}
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyValidationFailed), errs)
		return false
	}
	return true
}

// undecodableFields decodes each top-level key of body on its own into a
// fresh value of dst's type and returns the keys that fail, sorted.
func undecodableFields(body []byte, dst interface{}) []string {
	t := reflect.TypeOf(dst)
	if t == nil || t.Kind() != reflect.Ptr {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	var fields []string
	for key, value := range raw {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			continue
		}
		if err := json.Unmarshal(single, reflect.New(t.Elem()).Interface()); err != nil {
			fields = append(fields, key)
		}
	}
	sort.Strings(fields)
	return fields
}

// bindJSON decodes a small transport struct the services validate with
// struct tags themselves.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidPayload))
		return false
	}
	return true
}

// bindMultipart validates a multipart form (fields plus the "file" part)
// against the rule set under key and returns the uploaded file header.
func bindMultipart(c *gin.Context, key validation.Key) (validation.Data, *multipart.FileHeader, bool) {
	lang := utils.GetLangFromContext(c)

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, multipart.ErrMessageTooLarge) {
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyValidationFailed), map[string][]string{
			"file": {"The file field is required."},
		})
		return nil, nil, false
	}

	data := validation.Data{}
	var file *multipart.FileHeader
	if form := c.Request.MultipartForm; form != nil {
		for field, values := range form.Value {
			if len(values) > 0 {
				data[field] = values[0]
			}
		}
		if files := form.File["file"]; len(files) > 0 {
			file = files[0]
			data["file"] = file
		}
	}

	if errs := validation.Check(key, data); errs.HasErrors() {
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyValidationFailed), errs)
		return nil, nil, false
	}
	return data, file, true
}

// respondError maps the service error taxonomy onto the response envelope.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	var domainErr *services.DomainError

	switch {
	case errors.As(err, &validationErr):
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyValidationFailed), validationErr.Fields)
	case errors.As(err, &domainErr):
		utils.UnprocessableResponse(c, domainErr.Message, nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyForbidden))
	case errors.Is(err, services.ErrAccountInactive):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccountInactive))
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyConflict))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_id":    currentUserID(c),
		}).Error("Unhandled service error")
		utils.InternalErrorResponse(c, err)
	}
}
