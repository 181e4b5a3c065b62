package webdriver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// fakeNode is an element served by fakeServer.
type fakeNode struct {
	tag, text, value string
	attrs            map[string]string
	selected         bool
	// options lists the IDs of option children.
	options  []string
	multiple bool
	parent   string
}

// fakeServer is a minimal WebDriver server over a fixed set of elements.
type fakeServer struct {
	prefix string
	// legacy makes the server speak the JSON wire protocol.
	legacy bool

	mu       sync.Mutex
	session  string
	url      string
	caps     map[string]interface{}
	nodes    map[string]*fakeNode
	bySel    map[string][]string
	shutdown func()
}

func newFakeServer(prefix string) *fakeServer {
	s := &fakeServer{
		prefix: prefix,
		url:    "about:blank",
		nodes: map[string]*fakeNode{
			"e-title": {tag: "h1", text: "Quote", attrs: map[string]string{"class": "title big"}},
			"e-age":   {tag: "input", attrs: map[string]string{"type": "text", "id": "age"}},
			"e-veh":   {tag: "select", attrs: map[string]string{"id": "vehicle"}, options: []string{"o-cars", "o-moto", "o-boat"}},
			"o-cars":  {tag: "option", text: "Cars", value: "cars", attrs: map[string]string{"value": "cars"}, selected: true, parent: "e-veh"},
			"o-moto":  {tag: "option", text: "Motorcycles", value: "motorcycles", attrs: map[string]string{"value": "motorcycles"}, parent: "e-veh"},
			"o-boat":  {tag: "option", text: "Boats", value: "boats", attrs: map[string]string{"value": "boats"}, parent: "e-veh"},
			"e-item1": {tag: "li", text: "one"},
			"e-item2": {tag: "li", text: "two"},
		},
		bySel: map[string][]string{
			"h1":       {"e-title"},
			"#age":     {"e-age"},
			"#vehicle": {"e-veh"},
			"li":       {"e-item1", "e-item2"},
		},
	}
	return s
}

func (s *fakeServer) reply(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", JSONType)
	w.WriteHeader(code)
	if s.legacy {
		json.NewEncoder(w).Encode(map[string]interface{}{"sessionId": s.session, "status": 0, "value": v})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"value": v})
}

func (s *fakeServer) fail(w http.ResponseWriter, code, legacyCode int, name, msg string) {
	w.Header().Set("Content-Type", JSONType)
	if s.legacy {
		// Legacy servers report most failures with HTTP 200.
		json.NewEncoder(w).Encode(map[string]interface{}{"status": legacyCode, "value": map[string]string{"message": msg}})
		return
	}
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{"value": map[string]string{"error": name, "message": msg}})
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]interface{}
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.fail(w, http.StatusBadRequest, 13, "invalid argument", err.Error())
			return
		}
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, s.prefix), "/")
	parts := strings.Split(path, "/")
	switch {
	case path == "status":
		s.reply(w, http.StatusOK, map[string]interface{}{
			"build":   map[string]string{"version": "114.0.5735.90 (386bc09e8f4f2e025eddae123f36f6263096ae49)"},
			"ready":   true,
			"message": "ready for new sessions",
		})
		return
	case path == "shutdown":
		s.reply(w, http.StatusOK, nil)
		if s.shutdown != nil {
			go s.shutdown()
		}
		return
	case path == "session" && r.Method == http.MethodPost:
		s.session = "s-1"
		s.caps, _ = body["desiredCapabilities"].(map[string]interface{})
		if s.legacy {
			s.reply(w, http.StatusOK, s.caps)
			return
		}
		s.reply(w, http.StatusOK, map[string]interface{}{"sessionId": s.session, "capabilities": s.caps})
		return
	}

	if len(parts) < 2 || parts[0] != "session" || parts[1] != s.session || s.session == "" {
		s.fail(w, http.StatusNotFound, 6, "invalid session id", "no active session: "+path)
		return
	}
	parts = parts[2:]
	if len(parts) == 0 && r.Method == http.MethodDelete {
		s.session = ""
		s.reply(w, http.StatusOK, nil)
		return
	}

	switch {
	case len(parts) == 1 && parts[0] == "url":
		if r.Method == http.MethodPost {
			s.url, _ = body["url"].(string)
			s.reply(w, http.StatusOK, nil)
			return
		}
		s.reply(w, http.StatusOK, s.url)
	case len(parts) == 1 && (parts[0] == "element" || parts[0] == "elements"):
		s.find(w, s.bySel[body["value"].(string)], parts[0] == "element", body["value"].(string))
	case len(parts) == 2 && parts[0] == "execute" && parts[1] == "sync":
		args, _ := body["args"].([]interface{})
		if len(args) != 1 {
			s.fail(w, http.StatusInternalServerError, 17, "javascript error", "unexpected arguments")
			return
		}
		ref, _ := args[0].(map[string]interface{})
		n, ok := s.nodes[fmt.Sprint(ref["element-6066-11e4-a52e-4f735466cecf"])]
		if !ok {
			s.fail(w, http.StatusNotFound, 10, "stale element reference", "unknown element")
			return
		}
		s.reply(w, http.StatusOK, n.attrs)
	case len(parts) >= 3 && parts[0] == "element":
		s.element(w, parts[1], parts[2:], body)
	default:
		s.fail(w, http.StatusNotFound, 9, "unknown command", path)
	}
}

func (s *fakeServer) ref(id string) map[string]string {
	if s.legacy {
		return map[string]string{"ELEMENT": id}
	}
	return map[string]string{"element-6066-11e4-a52e-4f735466cecf": id}
}

func (s *fakeServer) find(w http.ResponseWriter, ids []string, single bool, selector string) {
	if single {
		if len(ids) == 0 {
			s.fail(w, http.StatusNotFound, 7, "no such element", "unable to locate element: "+selector)
			return
		}
		s.reply(w, http.StatusOK, s.ref(ids[0]))
		return
	}
	refs := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, s.ref(id))
	}
	s.reply(w, http.StatusOK, refs)
}

func (s *fakeServer) element(w http.ResponseWriter, id string, cmd []string, body map[string]interface{}) {
	n, ok := s.nodes[id]
	if !ok {
		s.fail(w, http.StatusNotFound, 10, "stale element reference", "unknown element "+id)
		return
	}
	switch cmd[0] {
	case "name":
		s.reply(w, http.StatusOK, n.tag)
	case "text":
		s.reply(w, http.StatusOK, n.text)
	case "selected":
		s.reply(w, http.StatusOK, n.selected)
	case "property":
		s.reply(w, http.StatusOK, n.value)
	case "attribute":
		v, ok := n.attrs[cmd[1]]
		if !ok {
			s.reply(w, http.StatusOK, nil)
			return
		}
		s.reply(w, http.StatusOK, v)
	case "elements":
		if body["value"] != "option" {
			s.find(w, nil, false, "")
			return
		}
		s.find(w, n.options, false, "option")
	case "click":
		if n.tag == "option" {
			p := s.nodes[n.parent]
			if p.multiple {
				n.selected = !n.selected
			} else {
				for _, o := range p.options {
					s.nodes[o].selected = o == id
				}
			}
		}
		s.reply(w, http.StatusOK, nil)
	case "clear":
		n.value = ""
		s.reply(w, http.StatusOK, nil)
	case "value":
		text, _ := body["text"].(string)
		n.value += text
		s.reply(w, http.StatusOK, nil)
	default:
		s.fail(w, http.StatusNotFound, 9, "unknown command", strings.Join(cmd, "/"))
	}
}
