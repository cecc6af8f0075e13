package get_members

import (
	"sort"

	"github.com/m04kA/SMC-WorkloadService/internal/integrations/currentrms"
)

// MemberResponse HTTP response model
type MemberResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FromMembers оставляет активных пользователей, отсортированных по имени
func FromMembers(members []currentrms.Member) []MemberResponse {
	res := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		if !m.Active {
			continue
		}
		res = append(res, MemberResponse{ID: m.ID, Name: m.Name})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}
