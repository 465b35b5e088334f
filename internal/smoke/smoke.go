// Package smoke runs a short list of HTTP checks against a running
// deployment, either the gateway or a single service.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"hospital-management/internal/delivery/dto"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
)

// Check is one request and the status it must answer with.
type Check struct {
	Name   string
	Method string
	Path   string
	Auth   bool
	Expect int
}

type Result struct {
	Check    Check
	Status   int
	Duration time.Duration
	Err      error
}

func (r Result) Passed() bool {
	return r.Err == nil && r.Status == r.Check.Expect
}

type Options struct {
	BaseURL    string
	HealthPath string
	Email      string
	Password   string
	Timeout    time.Duration
}

// PublicChecks need no login.
func PublicChecks(healthPath string) []Check {
	return []Check{
		{Name: "health", Method: http.MethodGet, Path: healthPath, Expect: http.StatusOK},
		{Name: "list departments", Method: http.MethodGet, Path: "/api/departments", Expect: http.StatusOK},
		{Name: "list specialties", Method: http.MethodGet, Path: "/api/specialties", Expect: http.StatusOK},
		{Name: "list doctors", Method: http.MethodGet, Path: "/api/doctors?limit=5", Expect: http.StatusOK},
		{Name: "unknown doctor", Method: http.MethodGet, Path: "/api/doctors/CARD-DOC-190001-999", Expect: http.StatusNotFound},
		{Name: "appointments need token", Method: http.MethodGet, Path: "/api/appointments", Expect: http.StatusUnauthorized},
	}
}

// AuthenticatedChecks run with the access token from the login check.
var AuthenticatedChecks = []Check{
	{Name: "current user", Method: http.MethodGet, Path: "/api/auth/me", Auth: true, Expect: http.StatusOK},
	{Name: "list appointments", Method: http.MethodGet, Path: "/api/appointments?limit=5", Auth: true, Expect: http.StatusOK},
	{Name: "unread notifications", Method: http.MethodGet, Path: "/api/notifications/unread-count", Auth: true, Expect: http.StatusOK},
}

type Runner struct {
	client *resty.Client
	opts   Options
}

func NewRunner(opts Options) *Runner {
	if opts.HealthPath == "" {
		opts.HealthPath = "/health"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &Runner{client: client, opts: opts}
}

// Run executes every check in order. Authenticated checks are only attempted
// when an email is configured, and fail together when the login fails.
func (r *Runner) Run(ctx context.Context) []Result {
	var results []Result
	for _, check := range PublicChecks(r.opts.HealthPath) {
		results = append(results, r.do(ctx, check, ""))
	}

	if r.opts.Email == "" {
		return results
	}

	loginResult, token := r.login(ctx)
	results = append(results, loginResult)

	for _, check := range AuthenticatedChecks {
		if token == "" {
			results = append(results, Result{Check: check, Err: errors.New("skipped, login failed")})
			continue
		}
		results = append(results, r.do(ctx, check, token))
	}
	return results
}

func (r *Runner) do(ctx context.Context, check Check, token string) Result {
	req := r.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Execute(check.Method, check.Path)
	result := Result{Check: check, Err: err}
	if resp != nil {
		result.Status = resp.StatusCode()
		result.Duration = resp.Time()
	}
	return result
}

type loginEnvelope struct {
	Data dto.LoginResponse `json:"data"`
}

func (r *Runner) login(ctx context.Context) (Result, string) {
	check := Check{Name: "login", Method: http.MethodPost, Path: "/api/auth/login", Expect: http.StatusOK}

	var envelope loginEnvelope
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(dto.LoginRequest{Email: r.opts.Email, Password: r.opts.Password}).
		SetResult(&envelope).
		Post(check.Path)

	result := Result{Check: check, Err: err}
	if resp != nil {
		result.Status = resp.StatusCode()
		result.Duration = resp.Time()
	}
	if !result.Passed() {
		return result, ""
	}
	if envelope.Data.Token.AccessToken == "" {
		result.Err = errors.New("login answered without an access token")
		return result, ""
	}
	return result, envelope.Data.Token.AccessToken
}

// Failed reports whether any check did not pass.
func Failed(results []Result) bool {
	return lo.SomeBy(results, func(r Result) bool { return !r.Passed() })
}

// PrintTable writes one line per check plus a summary line.
func PrintTable(w io.Writer, results []Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tREQUEST\tEXPECT\tGOT\tTIME\tRESULT")
	for _, r := range results {
		got := "-"
		if r.Status != 0 {
			got = fmt.Sprint(r.Status)
		}
		verdict := "PASS"
		if !r.Passed() {
			verdict = "FAIL"
			if r.Err != nil {
				verdict += ": " + r.Err.Error()
			}
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%d\t%s\t%s\t%s\n",
			r.Check.Name, r.Check.Method, r.Check.Path, r.Check.Expect, got,
			r.Duration.Round(time.Millisecond), verdict)
	}
	tw.Flush()

	passed := lo.CountBy(results, func(r Result) bool { return r.Passed() })
	fmt.Fprintf(w, "\n%d/%d checks passed\n", passed, len(results))
}
