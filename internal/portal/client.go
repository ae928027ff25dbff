package portal

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"gradebot/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	loginPagePath = "/"
	loginPath     = "/Account/Login"
	resultsPath   = "/Student/Results"

	tokenField = "__RequestVerificationToken"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// DefaultGradesTable matches the results table of the portal
	DefaultGradesTable = "table#gradesTable"
)

// Options configures a portal client
type Options struct {
	BaseURL string
	// Timeout of a single round-trip, zero means none
	Timeout     time.Duration
	GradesTable string
}

// Client logs into the portal and scrapes grades
type Client struct {
	http        *resty.Client
	gradesTable string
	logger      *zap.Logger
}

// session carries what one FetchGrades call learns along the way.
// It is never shared between calls and the client keeps no cookie jar.
type session struct {
	token       string
	pageCookies []*http.Cookie
	authCookies []*http.Cookie
}

// NewClient creates a new portal client
func NewClient(opts Options, logger *zap.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetCookieJar(nil)
	client.SetHeader("User-Agent", userAgent)
	// login success is signalled by a redirect, so never follow one
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	gradesTable := opts.GradesTable
	if gradesTable == "" {
		gradesTable = DefaultGradesTable
	}

	return &Client{
		http:        client,
		gradesTable: gradesTable,
		logger:      logger,
	}
}

// FetchGrades logs in with the given credentials and returns the grades table.
// A missing or empty table is reported through the report status, not an error.
func (c *Client) FetchGrades(ctx context.Context, username, password string) (domain.GradeReport, error) {
	s := &session{}

	if err := c.loadLoginPage(ctx, s); err != nil {
		return domain.GradeReport{}, err
	}
	if err := c.login(ctx, s, username, password); err != nil {
		return domain.GradeReport{}, err
	}

	body, err := c.loadResults(ctx, s)
	if err != nil {
		return domain.GradeReport{}, err
	}

	report, err := parseGrades(body, c.gradesTable)
	if err != nil {
		return domain.GradeReport{}, err
	}

	c.logger.Debug("Grades page scraped",
		zap.Stringer("status", report.Status),
		zap.Int("records", len(report.Records)),
	)
	return report, nil
}

// loadLoginPage fetches the anti-forgery token; a missing token is tolerated
func (c *Client) loadLoginPage(ctx context.Context, s *session) error {
	res, err := c.http.R().
		SetContext(ctx).
		Get(loginPagePath)
	if err != nil {
		return &domain.NetworkError{Step: "login_page", Err: err}
	}
	if err := checkStatus(res, "login_page"); err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return &domain.ParseError{Page: "login", Err: err}
	}

	s.token = doc.Find(fmt.Sprintf("input[name=%q]", tokenField)).AttrOr("value", "")
	s.pageCookies = res.Cookies()

	c.logger.Debug("Login page loaded",
		zap.Bool("token_found", s.token != ""),
		zap.Int("cookies", len(s.pageCookies)),
	)
	return nil
}

// login posts the form and keeps the session cookies the portal hands out
func (c *Client) login(ctx context.Context, s *session, username, password string) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetCookies(s.pageCookies).
		SetFormData(map[string]string{
			"Username": username,
			"Password": password,
			tokenField: s.token,
		}).
		Post(loginPath)
	if err != nil {
		return &domain.NetworkError{Step: "login", Err: err}
	}
	if err := checkStatus(res, "login"); err != nil {
		return err
	}

	if len(res.Header().Values("Set-Cookie")) == 0 {
		c.logger.Debug("Login response carried no session cookie", zap.Int("status", res.StatusCode()))
		return domain.ErrAuthentication
	}

	s.authCookies = res.Cookies()
	if len(s.authCookies) == 0 {
		return domain.ErrAuthentication
	}

	c.logger.Debug("Portal session established",
		zap.Int("status", res.StatusCode()),
		zap.Int("cookies", len(s.authCookies)),
	)
	return nil
}

// loadResults requests the grades page with the session cookies attached by hand
func (c *Client) loadResults(ctx context.Context, s *session) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetCookies(s.authCookies).
		Get(resultsPath)
	if err != nil {
		return nil, &domain.NetworkError{Step: "results", Err: err}
	}
	if err := checkStatus(res, "results"); err != nil {
		return nil, err
	}

	// the portal bounces requests it does not recognise back to the login page
	if isRedirect(res.StatusCode()) {
		c.logger.Debug("Grades page redirected", zap.Int("status", res.StatusCode()))
		return nil, domain.ErrAuthentication
	}

	return res.Body(), nil
}

// checkStatus reports a 5xx answer as a NetworkError: the portal is up but not serving
func checkStatus(res *resty.Response, step string) error {
	if res.StatusCode() >= http.StatusInternalServerError {
		return &domain.NetworkError{
			Step: step,
			Err:  fmt.Errorf("unexpected status %d", res.StatusCode()),
		}
	}
	return nil
}

func isRedirect(status int) bool {
	return status >= http.StatusMultipleChoices && status < http.StatusBadRequest
}
