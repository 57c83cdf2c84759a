package middleware

import (
	"net/http"

	"github.com/eduhub/examcore/internal/model"
	"github.com/eduhub/examcore/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only if the principal has one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	code := response.ErrForbidden
	if len(roles) == 1 && roles[0] == model.RoleStudent {
		code = response.ErrStudentAccessOnly
	} else if onlyStaff(roles) {
		code = response.ErrStaffAccessOnly
	}

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, code)
	}
}

func onlyStaff(roles []model.Role) bool {
	if len(roles) == 0 {
		return false
	}
	for _, r := range roles {
		if !r.Staff() {
			return false
		}
	}
	return true
}
