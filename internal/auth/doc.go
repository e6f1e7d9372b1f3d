// Package auth provides authentication and the authorization gate of the application.
//
// # Authentication
//
// LocalProvider checks usernames and Argon2id password hashes against the users table.
// TokenService issues HS256 signed JWTs and keeps a denylist of revoked token ids in a
// fiber.Storage, so logout works with the memory, MySQL or PostgreSQL storage backends.
//
// # Authorization
//
// A user's effective permissions are the union of the permissions of all its roles:
//   - no wildcard matching
//   - no implication from a role's hierarchy level
//   - the admin role holds every permission only because the seed assigns them
//
// Service.LoadPrincipal resolves a user once per request into a Principal that
// memoizes the permission set. Service.Authorize turns a missing permission into an
// apperr Forbidden error, which the web layer renders as 403.
//
// # Tenant scope
//
// ScopeQuery is the single place tenant filters are added to queries against tenant
// scoped tables. InScope and CanWriteTenant answer the same question for one row.
//
// Example usage:
//
//	gate := auth.NewService(db)
//
//	app.Get("/api/staff",
//	    auth.RequirePermission(gate, rbac.PermViewStaff),
//	    handler,
//	)
//
//	q := auth.ScopeQuery(db.Model(&models.Staff{}), auth.PrincipalFrom(c), "staff")
package auth
