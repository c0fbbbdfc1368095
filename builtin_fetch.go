// builtin_fetch.go — the fetcher builtin area.
//
// One verb per builtin: fetchget, fetchpost, fetchput, fetchdelete,
// fetchhead. Each returns a dictionary {"status", "headers", "body"};
// multi-valued response headers are joined with ", ". Requests share a
// per-interpreter timeout, adjustable with fetchsettimeout.

package easybite

import (
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFetchTimeout = 30 * time.Second

func registerFetchBuiltins(ip *Interpreter) {
	ip.fetchTimeout = defaultFetchTimeout

	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("fetchget", 1, 2, func(ip *Interpreter, args []Value) Value {
		return doFetch(ip, "fetchget", http.MethodGet, args, false)
	}, `fetchget(url, headers?) -> {"status", "headers", "body"}

Performs an HTTP GET. headers is an optional dictionary of request
headers. Network failures raise ExternalError; HTTP error statuses do
not (check "status").`)

	reg("fetchpost", 2, 3, func(ip *Interpreter, args []Value) Value {
		return doFetch(ip, "fetchpost", http.MethodPost, args, true)
	}, `fetchpost(url, body, headers?) -> {"status", "headers", "body"}
Performs an HTTP POST with the given body.`)

	reg("fetchput", 2, 3, func(ip *Interpreter, args []Value) Value {
		return doFetch(ip, "fetchput", http.MethodPut, args, true)
	}, `fetchput(url, body, headers?) -> {"status", "headers", "body"}
Performs an HTTP PUT with the given body.`)

	reg("fetchdelete", 1, 2, func(ip *Interpreter, args []Value) Value {
		return doFetch(ip, "fetchdelete", http.MethodDelete, args, false)
	}, `fetchdelete(url, headers?) -> {"status", "headers", "body"}
Performs an HTTP DELETE.`)

	reg("fetchhead", 1, 2, func(ip *Interpreter, args []Value) Value {
		return doFetch(ip, "fetchhead", http.MethodHead, args, false)
	}, `fetchhead(url, headers?) -> {"status", "headers", "body"}
Performs an HTTP HEAD; "body" is always empty.`)

	reg("fetchsettimeout", 1, 1, func(ip *Interpreter, args []Value) Value {
		ms := argNum("fetchsettimeout", args, 0)
		if ms < 0 {
			fail(ErrType, "fetchsettimeout() takes a non-negative millisecond count")
		}
		ip.fetchTimeout = time.Duration(ms * float64(time.Millisecond))
		return Bool(true)
	}, `fetchsettimeout(ms) -> true

Sets the timeout for later fetch calls. The default is 30000; 0 waits
forever.`)
}

// doFetch performs one HTTP request. When hasBody is set, args[1] is the
// request body and an optional headers dictionary follows; otherwise the
// headers dictionary is args[1].
func doFetch(ip *Interpreter, name, method string, args []Value, hasBody bool) Value {
	url := argStr(name, args, 0)
	var bodyReader io.Reader
	headerIdx := 1
	if hasBody {
		bodyReader = strings.NewReader(args[1].Display())
		headerIdx = 2
	}
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	if len(args) > headerIdx {
		h := argDict(name, args, headerIdx)
		for _, k := range h.Keys {
			v, _ := h.Get(k)
			req.Header.Set(k.Display(), v.Display())
		}
	}
	client := &http.Client{Timeout: ip.fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	headers := NewDict()
	for k, vs := range resp.Header {
		headers.Set(Str(k), Str(strings.Join(vs, ", ")))
	}
	out := NewDict()
	out.Set(Str("status"), Num(float64(resp.StatusCode)))
	out.Set(Str("headers"), DictVal(headers))
	out.Set(Str("body"), Str(string(b)))
	return DictVal(out)
}
