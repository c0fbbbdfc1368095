package easybite

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

// freePort grabs an ephemeral loopback port and releases it for reuse.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("cannot pick free port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

type evalResult struct {
	v   Value
	err error
}

// evalInBackground runs src on its own goroutine, sharing ip's globals.
func evalInBackground(ip *Interpreter, src string) chan evalResult {
	ch := make(chan evalResult, 1)
	go func() {
		v, err := ip.EvalSource(src)
		ch <- evalResult{v, err}
	}()
	return ch
}

func Test_Net_TCP_Script_Client(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 4)
		if _, err := io.ReadFull(c, buf); err != nil {
			return
		}
		_, _ = c.Write([]byte(strings.ToUpper(string(buf))))
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	ip := NewRuntime()
	ip.Global.Define("port", Num(float64(port)))
	wantBool(t, mustEvalPersistent(t, ip, `
set c to tcpconnect("127.0.0.1", port)
set sent to tcpsend(c, "ping")
set reply to tcpreceive(c)
tcpclose(c)
[sent, reply] == [4, "PING"]
`), true)
	<-done
}

func Test_Net_TCP_Script_Server(t *testing.T) {
	port := freePort(t)
	ip := NewRuntime()
	ip.Global.Define("port", Num(float64(port)))

	ch := evalInBackground(ip, `
set srv to tcpbind("127.0.0.1", port)
tcplisten(srv)
set conn to tcpaccept(srv)
set line to tcpreceive(conn)
tcpsend(conn, "ok")
set after to tcpreceive(conn)
tcpclose(conn)
tcpclose(srv)
[line, after]
`)

	time.Sleep(50 * time.Millisecond)
	c, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_, _ = c.Write([]byte("hello"))
	reply := make([]byte, 2)
	if _, err := io.ReadFull(c, reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	_ = c.Close()

	res := <-ch
	if res.err != nil {
		t.Fatalf("eval error: %v", res.err)
	}
	arr := res.v.Data.(*ArrayObject).Elems
	wantStr(t, arr[0], "hello")
	// peer close surfaces as null
	wantNull(t, arr[1])
	if string(reply) != "ok" {
		t.Fatalf("client got %q", reply)
	}
}

func Test_Net_TCP_Errors(t *testing.T) {
	wantErr(t, `tcpconnect("127.0.0.1", 1)`, ErrExternal, "tcpconnect()")
	wantErr(t, `tcpconnect("127.0.0.1", 70000)`, ErrType, "invalid port 70000")
	wantErr(t, `tcpaccept(tcpbind("127.0.0.1", 0))`, ErrExternal, "call tcplisten first")
	wantErr(t, `tcpsend(5, "x")`, ErrType, "expected a tcp handle")
	wantErr(t, `tcpclose(udpbind("127.0.0.1", 0))`, ErrType, "got a udp handle")
}

// udpPort digs the bound port out of a udp handle.
func udpPort(t *testing.T, v Value) int {
	t.Helper()
	if v.Tag != VTHandle {
		t.Fatalf("want udp handle, got %#v", v)
	}
	return v.Data.(*Handle).Data.(*udpSocket).pc.LocalAddr().(*net.UDPAddr).Port
}

func Test_Net_UDP_Round_Trip(t *testing.T) {
	ip := NewRuntime()
	mustEvalPersistent(t, ip, `
set a to udpbind("127.0.0.1", 0)
set b to udpbind("127.0.0.1", 0)
`)
	ip.Global.Define("bport", Num(float64(udpPort(t, mustEvalPersistent(t, ip, "b")))))

	wantBool(t, mustEvalPersistent(t, ip, `
udpsendto(a, "hi", "127.0.0.1", bport)
set got to udpreceivefrom(b)
udpsendto(b, "pong:" + got[0], got[1], got[2])
set back to udpreceivefrom(a)
udpclose(a)
udpclose(b)
back[0] == "pong:hi"
`), true)
}

func Test_Net_HTTP_Accept_Respond(t *testing.T) {
	port := freePort(t)
	ip := NewRuntime()
	ip.Global.Define("port", Num(float64(port)))

	ch := evalInBackground(ip, `
set srv to bind("127.0.0.1", port)
listen(srv)
set req to accept(srv)
set info to readrequest(req)
set line to info["method"] + " " + info["path"] + " " + info["body"]
sendresponse(req, 201, "made:" + line, {"X-Area": "listener"})
shutdown(srv)
set after to accept(srv)
[info["query"]["q"], after]
`)

	time.Sleep(100 * time.Millisecond)
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Post(
		fmt.Sprintf("http://127.0.0.1:%d/make?q=zig", port),
		"text/plain", strings.NewReader("BODY"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := string(body); got != "made:POST /make BODY" {
		t.Fatalf("body = %q", got)
	}
	if h := resp.Header.Get("X-Area"); h != "listener" {
		t.Fatalf("X-Area = %q", h)
	}

	res := <-ch
	if res.err != nil {
		t.Fatalf("eval error: %v", res.err)
	}
	arr := res.v.Data.(*ArrayObject).Elems
	wantStr(t, arr[0], "zig")
	wantNull(t, arr[1])
}

func Test_Net_HTTP_Serveforever(t *testing.T) {
	port := freePort(t)
	ip := NewRuntime()
	ip.Global.Define("port", Num(float64(port)))

	ch := evalInBackground(ip, `
set srv to bind("127.0.0.1", port)
listen(srv)
set hits to 0
function handler(req)
    set hits to hits + 1
    set info to readrequest(req)
    if info["path"] == "/echo" then
        sendresponse(req, 200, "echo:" + info["body"])
    else if info["path"] == "/stop" then
        sendresponse(req, "stopping")
        shutdown(srv)
    else
        return "fallback"
    end if
end function
serveforever(srv, handler)
hits
`)

	time.Sleep(100 * time.Millisecond)
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	get := func(path, body string) string {
		t.Helper()
		var resp *http.Response
		var err error
		url := fmt.Sprintf("http://127.0.0.1:%d%s", port, path)
		if body == "" {
			resp, err = client.Get(url)
		} else {
			resp, err = client.Post(url, "text/plain", strings.NewReader(body))
		}
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return string(b)
	}

	if got := get("/echo", "zz"); got != "echo:zz" {
		t.Fatalf("/echo = %q", got)
	}
	// a handler return value with no sendresponse becomes the 200 body
	if got := get("/other", ""); got != "fallback" {
		t.Fatalf("/other = %q", got)
	}
	if got := get("/stop", ""); got != "stopping" {
		t.Fatalf("/stop = %q", got)
	}

	res := <-ch
	if res.err != nil {
		t.Fatalf("eval error: %v", res.err)
	}
	wantNum(t, res.v, 3)
}

func Test_Net_HTTP_Errors(t *testing.T) {
	wantErr(t, `bind("127.0.0.1", 70000)`, ErrType, "invalid port 70000")
	wantErr(t, `sendresponse(5, "x")`, ErrType, "expected a request handle")
	wantErr(t, `serveforever(bind("127.0.0.1", 0), 9)`, ErrType, "takes a handler function")
	wantErr(t, `serveforever(bind("127.0.0.1", 0), length)`, ErrExternal, "call listen first")
}
