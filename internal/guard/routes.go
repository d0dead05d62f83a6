package guard

import "edumaster/web/internal/models"

type Route struct {
	Path      string
	Protected bool
	Roles     []models.Role
}

var (
	AnyRole         = []models.Role{models.RoleStudent, models.RoleInstructor, models.RoleAdmin}
	InstructorRoles = []models.Role{models.RoleInstructor, models.RoleAdmin}
	AdminRoles      = []models.Role{models.RoleAdmin}
)

// Routes lists every page the gateway serves.
var Routes = []Route{
	{Path: "/"},
	{Path: "/login"},
	{Path: "/register"},
	{Path: "/courses"},
	{Path: "/courses/:id"},

	{Path: "/dashboard", Protected: true, Roles: AnyRole},
	{Path: "/profile", Protected: true, Roles: AnyRole},
	{Path: "/my-courses", Protected: true, Roles: AnyRole},
	{Path: "/payments", Protected: true, Roles: AnyRole},

	{Path: "/instructor", Protected: true, Roles: InstructorRoles},
	{Path: "/instructor/courses", Protected: true, Roles: InstructorRoles},
	{Path: "/instructor/courses/create", Protected: true, Roles: InstructorRoles},

	{Path: "/admin", Protected: true, Roles: AdminRoles},
	{Path: "/admin/categories", Protected: true, Roles: AdminRoles},
}

func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
