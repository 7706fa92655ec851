// Package web serves the browser shell: a login page at "/" and the dashboard at "/dashboard".
//
// Pages are rendered server-side from embedded html/template files. Each form posts an event that is
// driven through the same [app.LoginMachine] and [app.Dashboard] the TUI uses, then redirects back with
// 303 See Other so reloading a page never repeats an action.
//
// Routes
//
//	GET  /                    → login form (redirects to /dashboard when a key is stored)
//	POST /                    → submit credentials
//	GET  /dashboard           → dashboard; ?refresh=1 fetches again
//	POST /dashboard/category  → switch tab
//	POST /dashboard/scrape    → trigger a scrape
//	POST /dashboard/clear     → ask to delete all updates
//	POST /dashboard/delete    → ask to delete one update
//	POST /dashboard/confirm   → run the pending deletion
//	POST /dashboard/cancel    → drop the pending deletion
//	POST /dashboard/dismiss   → hide the notice
//	POST /logout              → clear the stored key
//
// Any other path redirects to the route it resolves to, which is "/" for anything unknown.
package web
