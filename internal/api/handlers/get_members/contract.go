package get_members

import (
	"context"

	"github.com/m04kA/SMC-WorkloadService/internal/integrations/currentrms"
)

type MemberLister interface {
	GetMembers(ctx context.Context, filterMode string) ([]currentrms.Member, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
