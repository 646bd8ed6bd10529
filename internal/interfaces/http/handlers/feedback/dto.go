package feedback

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub/internal/application/feedback/usecases"
	fbdomain "github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/shared/utils"
)

type CreateThreadRequest struct {
	Title        string  `json:"title" binding:"required,max=200"`
	TargetRole   string  `json:"target_role" binding:"required"`
	TargetUserID *string `json:"target_user_id,omitempty" binding:"omitempty,max=64"`
	Type         string  `json:"type,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	Message      string  `json:"message" binding:"required,max=10000"`
}

func (r *CreateThreadRequest) ToCommand(requester fbdomain.Requester) usecases.CreateThreadCommand {
	return usecases.CreateThreadCommand{
		Requester:    requester,
		Title:        r.Title,
		Type:         r.Type,
		Priority:     r.Priority,
		TargetRole:   r.TargetRole,
		TargetUserID: r.TargetUserID,
		Message:      r.Message,
	}
}

type ReplyRequest struct {
	Message string `json:"message" binding:"required,max=10000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

type MigrateV1Request struct {
	BatchSize int `json:"batch_size,omitempty" binding:"omitempty,min=1,max=1000"`
}

func parseListThreadsQuery(c *gin.Context, requester fbdomain.Requester) usecases.ListThreadsQuery {
	p := utils.ParsePagination(c)

	createdByRole := c.Query("created_by_role")
	if createdByRole == "" {
		createdByRole = c.Query("createdByRole")
	}

	return usecases.ListThreadsQuery{
		Requester:      requester,
		Status:         c.Query("status"),
		Priority:       c.Query("priority"),
		Type:           c.Query("type"),
		CreatedByRole:  createdByRole,
		Search:         c.Query("search"),
		IncludeDeleted: utils.ParseQueryBool(c, "include_deleted", false),
		Page:           p.Page,
		PageSize:       p.PageSize,
	}
}
