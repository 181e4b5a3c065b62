// Package webdriver drives a browser over the WebDriver wire protocol. Both
// W3C endpoints and legacy JSON wire protocol servers are understood.
// See https://www.w3.org/TR/webdriver for the protocol.
package webdriver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/wanmail/fluent"
)

const (
	// Success is the legacy status code that indicates the method was
	// successful.
	Success = 0
	// DefaultExecutor is the default executor URL.
	DefaultExecutor = "http://127.0.0.1:4444/wd/hub"
	// JSONType is JSON content type.
	JSONType = "application/json"
	// MaxRedirects is the maximum number of redirects to follow.
	MaxRedirects = 10

	// debugLevel is the glog verbosity at which requests and replies are
	// logged.
	debugLevel = 3
)

var httpClient = &http.Client{
	// http.Client doesn't copy request headers, and WebDriver servers require
	// the Accept header on every hop.
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) > MaxRedirects {
			return fmt.Errorf("too many redirects (%d)", len(via))
		}
		req.Header.Add("Accept", JSONType)
		return nil
	},
}

// Client is a WebDriver session. It implements fluent.Driver.
type Client struct {
	id, executor string
	capabilities fluent.Capabilities

	// service is stopped by Quit when the client owns a local driver.
	service *Service
}

var _ fluent.Driver = (*Client)(nil)

// NewRemote creates a new session on the WebDriver server at executor, which
// must be prefixed with the protocol (http, https). An empty executor means
// DefaultExecutor.
func NewRemote(capabilities fluent.Capabilities, executor string) (*Client, error) {
	if executor == "" {
		executor = DefaultExecutor
	}
	c := &Client{executor: strings.TrimSuffix(executor, "/"), capabilities: capabilities}
	if err := c.newSession(); err != nil {
		return nil, err
	}
	return c, nil
}

// SessionID returns the current session ID.
func (c *Client) SessionID() string { return c.id }

// Executor returns the URL of the WebDriver server.
func (c *Client) Executor() string { return c.executor }

func isMimeType(response *http.Response, mtype string) bool {
	return strings.HasPrefix(response.Header.Get("Content-Type"), mtype)
}

func newRequest(method string, url string, data []byte) (*http.Request, error) {
	request, err := http.NewRequest(method, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	request.Header.Add("Accept", JSONType)
	if data != nil {
		request.Header.Add("Content-Type", JSONType)
	}
	return request, nil
}

func (c *Client) requestURL(template string, args ...interface{}) string {
	return c.executor + fmt.Sprintf(template, args...)
}

// serverReply holds the fields of both protocol dialects. Legacy servers
// put the session ID and status at the top level; W3C servers nest the
// session ID in the value and report errors through value.error.
type serverReply struct {
	SessionID *string // SessionID can be nil.
	Status    int
	Value     json.RawMessage
}

type errorValue struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func execute(method, url string, data []byte) ([]byte, error) {
	glog.V(debugLevel).Infof("-> %s %s\n%s", method, url, data)
	request, err := newRequest(method, url, data)
	if err != nil {
		return nil, err
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading reply to %s %s: %w", method, url, err)
	}
	glog.V(debugLevel).Infof("<- %s [%s]\n%s", response.Status, response.Header.Get("Content-Type"), buf)

	if response.StatusCode >= 400 {
		reply := new(serverReply)
		if err := json.Unmarshal(buf, reply); err != nil {
			return nil, &Error{Err: "unknown error", Message: fmt.Sprintf("bad server reply status: %s", response.Status), HTTPCode: response.StatusCode}
		}
		return nil, replyError(reply, response.StatusCode)
	}

	if isMimeType(response, JSONType) {
		reply := new(serverReply)
		if err := json.Unmarshal(buf, reply); err != nil {
			return nil, err
		}
		if reply.Status != Success {
			return nil, replyError(reply, response.StatusCode)
		}
	}

	// Nothing was returned, this is OK for some commands.
	return buf, nil
}

func replyError(reply *serverReply, httpCode int) *Error {
	e := &Error{HTTPCode: httpCode, LegacyCode: reply.Status}
	var v errorValue
	// The value is not always an object; a failed decode leaves v empty.
	_ = json.Unmarshal(reply.Value, &v)
	e.Err, e.Message = v.Error, v.Message
	if e.Err == "" {
		name, ok := remoteErrors[reply.Status]
		if !ok {
			name = fmt.Sprintf("unknown error - %d", reply.Status)
		}
		e.Err = name
	}
	return e
}

func (c *Client) newSession() error {
	message := map[string]interface{}{
		"desiredCapabilities": c.capabilities,
		"capabilities": map[string]interface{}{
			"alwaysMatch": c.capabilities,
		},
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	response, err := execute("POST", c.requestURL("/session"), data)
	if err != nil {
		return err
	}

	reply := new(serverReply)
	if err := json.Unmarshal(response, reply); err != nil {
		return err
	}
	if reply.SessionID != nil {
		c.id = *reply.SessionID
		return nil
	}
	v := new(struct{ SessionID string })
	if err := json.Unmarshal(reply.Value, v); err != nil {
		return err
	}
	if v.SessionID == "" {
		return fmt.Errorf("new session reply carries no session ID: %s", response)
	}
	c.id = v.SessionID
	return nil
}

func (c *Client) valueCommand(method, urlTemplate string, params, value interface{}) error {
	var data []byte
	if params != nil {
		var err error
		if data, err = json.Marshal(params); err != nil {
			return err
		}
	}
	response, err := execute(method, c.requestURL(urlTemplate, c.id), data)
	if err != nil || value == nil {
		return err
	}
	reply := new(struct{ Value json.RawMessage })
	if err := json.Unmarshal(response, reply); err != nil {
		return err
	}
	if len(reply.Value) == 0 {
		return nil
	}
	return json.Unmarshal(reply.Value, value)
}

func (c *Client) voidCommand(urlTemplate string, params interface{}) error {
	if params == nil {
		// W3C servers reject POSTs without a JSON body.
		params = struct{}{}
	}
	return c.valueCommand("POST", urlTemplate, params, nil)
}

// stringCommand returns "" for a null value.
func (c *Client) stringCommand(urlTemplate string) (string, error) {
	var v *string
	if err := c.valueCommand("GET", urlTemplate, nil, &v); err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (c *Client) boolCommand(urlTemplate string) (bool, error) {
	var v bool
	err := c.valueCommand("GET", urlTemplate, nil, &v)
	return v, err
}

// CurrentURL returns the URL of the loaded page.
func (c *Client) CurrentURL() (string, error) {
	return c.stringCommand("/session/%s/url")
}

// Navigate loads url in the current window.
func (c *Client) Navigate(url string) error {
	return c.voidCommand("/session/%s/url", map[string]string{"url": url})
}

// Quit ends the session and stops the local driver, if any.
func (c *Client) Quit() error {
	_, err := execute("DELETE", c.requestURL("/session/%s", c.id), nil)
	if err == nil {
		c.id = ""
	}
	if c.service != nil {
		if serr := c.service.Stop(); err == nil {
			err = serr
		}
		c.service = nil
	}
	return err
}

// elementRef decodes an element reference from either protocol dialect.
type elementRef struct {
	Legacy string `json:"ELEMENT"`
	W3C    string `json:"element-6066-11e4-a52e-4f735466cecf"`
}

func (r elementRef) id() string {
	if r.W3C != "" {
		return r.W3C
	}
	return r.Legacy
}

func (c *Client) find(url, selector string, single bool) ([]fluent.NativeElement, error) {
	params := map[string]string{
		"using": "css selector",
		"value": selector,
	}
	if single {
		var ref elementRef
		if err := c.valueCommand("POST", url, params, &ref); err != nil {
			return nil, err
		}
		return []fluent.NativeElement{&Element{c, ref.id()}}, nil
	}
	var refs []elementRef
	if err := c.valueCommand("POST", url+"s", params, &refs); err != nil {
		return nil, err
	}
	elems := make([]fluent.NativeElement, len(refs))
	for i, ref := range refs {
		elems[i] = &Element{c, ref.id()}
	}
	return elems, nil
}

// QuerySingle returns the first element matching the CSS selector.
func (c *Client) QuerySingle(selector string) (fluent.NativeElement, error) {
	elems, err := c.find("/session/%s/element", selector, true)
	if err != nil {
		return nil, err
	}
	return elems[0], nil
}

// QueryMultiple returns every element matching the CSS selector.
func (c *Client) QueryMultiple(selector string) ([]fluent.NativeElement, error) {
	return c.find("/session/%s/element", selector, false)
}

// ExecuteScript runs a synchronous script in the page and returns its
// result.
func (c *Client) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	if args == nil {
		args = make([]interface{}, 0)
	}
	var v interface{}
	err := c.valueCommand("POST", "/session/%s/execute/sync", map[string]interface{}{
		"script": script,
		"args":   args,
	}, &v)
	return v, err
}
