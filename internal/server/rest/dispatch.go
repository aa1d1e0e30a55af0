package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/sentiric/sentiric-softphone-service/internal/logger"
	"github.com/sentiric/sentiric-softphone-service/internal/observability/metrics"
	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

const maxBodyBytes = 1 << 20

type dispatchRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type operation func(ctx context.Context, tenant softphone.LocalTenant, params json.RawMessage) (any, error)

func tenantOp[Req, Res any](fn func(context.Context, softphone.LocalTenant, Req) (Res, error)) operation {
	return func(ctx context.Context, tenant softphone.LocalTenant, params json.RawMessage) (any, error) {
		var req Req
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return fn(ctx, tenant, req)
	}
}

func op[Req, Res any](fn func(context.Context, Req) (Res, error)) operation {
	return func(ctx context.Context, _ softphone.LocalTenant, params json.RawMessage) (any, error) {
		var req Req
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return fn(ctx, req)
	}
}

func (s *Server) operations() map[string]operation {
	svc := s.svc
	return map[string]operation{
		"get_organization":                          tenantOp(svc.GetOrganization),
		"create_organization":                       tenantOp(svc.CreateOrganization),
		"delete_organization":                       op(svc.DeleteOrganization),
		"update_organization_with_default_settings": op(svc.UpdateOrganizationWithDefaultSettings),
		"switch_organization_mode":                  op(svc.SwitchOrganizationMode),

		"get_branches":                        op(svc.GetBranches),
		"create_branch":                       tenantOp(svc.CreateBranch),
		"delete_branch":                       op(svc.DeleteBranch),
		"update_branch_with_default_settings": op(svc.UpdateBranchWithDefaultSettings),
		"update_branch_with_updated_settings": op(svc.UpdateBranchWithUpdatedSettings),
		"update_parks_with_updated_settings":  op(svc.UpdateParksWithUpdatedSettings),

		"get_users":             tenantOp(svc.GetUsers),
		"users_state":           op(svc.UsersState),
		"create_users":          tenantOp(svc.CreateUsers),
		"update_user":           tenantOp(svc.UpdateUser),
		"update_extension_name": tenantOp(svc.UpdateExtensionName),
		"resync_names":          tenantOp(svc.ResyncNames),
		"resync_password":       tenantOp(svc.ResyncPassword),
		"activate_user":         tenantOp(svc.ActivateUser),
		"deactivate_user":       op(svc.DeactivateUser),
		"detach_user":           op(svc.DetachUser),
		"delete_user":           op(svc.DeleteUser),
		"reset_user_password":   op(svc.ResetUserPassword),

		"create_integration": op(svc.CreateIntegration),
		"delete_integration": op(svc.DeleteIntegration),
		"get_integration":    op(svc.GetIntegration),
		"get_sms_trunk":      op(svc.GetSmsTrunk),
		"create_sms_trunk":   op(svc.CreateSmsTrunk),
		"update_sms_trunk":   op(svc.UpdateSmsTrunk),
		"delete_sms_trunk":   op(svc.DeleteSmsTrunk),
	}
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	tenant, ok := TenantFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing tenant", nil)
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	fn, ok := s.ops[req.Method]
	if !ok {
		metrics.ObserveOperation("unknown", "invalid")
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown method %q", req.Method), nil)
		return
	}

	log := logger.ForMethod(s.log, req.Method, tenant.DomainName)
	result, err := fn(r.Context(), tenant, req.Params)
	status, outcome := classify(err)
	metrics.ObserveOperation(req.Method, outcome)

	switch {
	case err == nil || outcome == "not_found":
		respondJSON(w, http.StatusOK, resultBody(result))
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Msg("İşlem başarısız")
		respondError(w, status, "internal error", nil)
	default:
		log.Warn().Err(err).Str("outcome", outcome).Msg("İşlem reddedildi")
		var fault *softphone.RemoteFault
		if errors.As(err, &fault) {
			respondError(w, status, remoteMessage(fault), fault)
			return
		}
		respondError(w, status, err.Error(), nil)
	}
}

// classify maps core errors onto HTTP status codes and the operation metric's outcome label.
func classify(err error) (int, string) {
	var fault *softphone.RemoteFault
	switch {
	case err == nil:
		return http.StatusOK, "ok"
	case errors.Is(err, softphone.ErrNotFound):
		return http.StatusOK, "not_found"
	case errors.Is(err, softphone.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid"
	case errors.Is(err, softphone.ErrTenantBusy):
		return http.StatusConflict, "busy"
	case errors.As(err, &fault):
		return http.StatusBadGateway, "remote_error"
	default:
		return http.StatusInternalServerError, "error"
	}
}

func remoteMessage(f *softphone.RemoteFault) string {
	if f.Message != "" {
		return f.Message
	}
	return f.Error()
}

// resultBody: boş sonuçlar {} olarak, boş listeler [] olarak döner.
func resultBody(result any) any {
	if result == nil {
		return struct{}{}
	}
	if raw, ok := result.(json.RawMessage); ok {
		if len(raw) == 0 {
			return struct{}{}
		}
		return map[string]json.RawMessage{"result": raw}
	}
	v := reflect.ValueOf(result)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		if v.IsNil() {
			return struct{}{}
		}
	case reflect.Slice:
		if v.IsNil() {
			result = reflect.MakeSlice(v.Type(), 0, 0).Interface()
		}
	}
	return map[string]any{"result": result}
}

func decodeParams(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: params: %v", softphone.ErrInvalidArgument, err)
	}
	return nil
}
