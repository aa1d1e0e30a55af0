package softphone

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: İstenen yerel veya uzak kayıt bulunamadı.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidArgument: İstek, uzak API'nin zorunlu kıldığı bir alanı içermiyor.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTenantBusy: Aynı tenant için başka bir provizyon işlemi sürüyor.
	ErrTenantBusy = errors.New("tenant provisioning already in progress")

	// ErrDatabase: Beklenmeyen veritabanı hatası.
	ErrDatabase = errors.New("database internal error")
)

// RemoteFault is returned verbatim when the hosted-PBX API rejects or fails a call.
type RemoteFault struct {
	Method     string
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *RemoteFault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ringotel %s: %v", e.Method, e.Err)
	}
	if e.Code != 0 {
		return fmt.Sprintf("ringotel %s: %s (code %d, http %d)", e.Method, e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("ringotel %s: %s (http %d)", e.Method, e.Message, e.StatusCode)
}

func (e *RemoteFault) Unwrap() error { return e.Err }

// Temporary reports whether re-issuing the same payload may succeed.
func (e *RemoteFault) Temporary() bool {
	return e.Err != nil || e.StatusCode >= 500 || e.StatusCode == 429
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
