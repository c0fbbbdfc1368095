// builtin_net.go — the socket and listener builtin areas.
//
// The socket area exposes raw TCP and UDP endpoints as handles: "tcp" for
// connected streams, "tcplistener" for accepting sockets, "udp" for packet
// sockets. bind reserves an address, listen opens it, accept yields
// connections.
//
// The listener area is a small HTTP server over the same vocabulary:
// bind/listen/accept hand out "request" handles, readrequest inspects one,
// sendresponse answers it, and serveforever drives a handler function on a
// worker interpreter per request until shutdown.

package easybite

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// tcpStream backs the "tcp" handle kind. The scratch buffer is reused
// across tcpreceive calls on the same handle.
type tcpStream struct {
	c   net.Conn
	buf []byte
}

type tcpListener struct {
	addr string
	ln   net.Listener
}

type udpSocket struct {
	pc net.PacketConn
}

func newTCPStream(c net.Conn) *tcpStream {
	return &tcpStream{c: c, buf: make([]byte, 4096)}
}

func registerNetBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("tcpconnect", 2, 2, func(ip *Interpreter, args []Value) Value {
		addr := hostPort("tcpconnect", args, 0)
		c, err := net.Dial("tcp", addr)
		if err != nil {
			fail(ErrExternal, "tcpconnect(): %s", err)
		}
		return HandleVal("tcp", newTCPStream(c))
	}, `tcpconnect(host, port) -> tcp handle
Opens a TCP connection. Use tcpsend/tcpreceive on the handle and
tcpclose when done.`)

	reg("tcpsend", 2, 2, func(ip *Interpreter, args []Value) Value {
		s := asHandle(args[0], "tcp").Data.(*tcpStream)
		n, err := s.c.Write([]byte(args[1].Display()))
		if err != nil {
			fail(ErrExternal, "tcpsend(): %s", err)
		}
		return Num(float64(n))
	}, `tcpsend(handle, data) -> number of bytes written.`)

	reg("tcpreceive", 1, 2, func(ip *Interpreter, args []Value) Value {
		s := asHandle(args[0], "tcp").Data.(*tcpStream)
		max := len(s.buf)
		if len(args) == 2 {
			max = argInt("tcpreceive", args, 1)
			if max <= 0 {
				fail(ErrType, "tcpreceive() byte count must be positive")
			}
		}
		buf := s.buf
		if max > len(buf) {
			buf = make([]byte, max)
		}
		n, err := s.c.Read(buf[:max])
		if n == 0 && err == io.EOF {
			return Null
		}
		if err != nil && err != io.EOF {
			fail(ErrExternal, "tcpreceive(): %s", err)
		}
		return Str(string(buf[:n]))
	}, `tcpreceive(handle, max?) -> string

Reads whatever bytes are ready, up to max (default 4096). Blocks until
data arrives; returns null when the peer has closed the connection.`)

	reg("tcpclose", 1, 1, func(ip *Interpreter, args []Value) Value {
		h := asHandle(args[0], "")
		switch h.Kind {
		case "tcp":
			h.Data.(*tcpStream).c.Close()
		case "tcplistener":
			tl := h.Data.(*tcpListener)
			if tl.ln != nil {
				tl.ln.Close()
			}
		default:
			fail(ErrType, "tcpclose() expects a tcp or tcplistener handle, got a %s handle", h.Kind)
		}
		return Bool(true)
	}, `tcpclose(handle) -> true
Closes a connection or an accepting socket.`)

	reg("tcpbind", 2, 2, func(ip *Interpreter, args []Value) Value {
		return HandleVal("tcplistener", &tcpListener{addr: hostPort("tcpbind", args, 0)})
	}, `tcpbind(host, port) -> tcplistener handle
Reserves an address; call tcplisten to start accepting.`)

	reg("tcplisten", 1, 1, func(ip *Interpreter, args []Value) Value {
		tl := asHandle(args[0], "tcplistener").Data.(*tcpListener)
		if tl.ln != nil {
			fail(ErrExternal, "tcplisten(): already listening on %s", tl.addr)
		}
		ln, err := net.Listen("tcp", tl.addr)
		if err != nil {
			fail(ErrExternal, "tcplisten(): %s", err)
		}
		tl.ln = ln
		return Bool(true)
	}, `tcplisten(handle) -> true
Starts listening on the address given to tcpbind.`)

	reg("tcpaccept", 1, 1, func(ip *Interpreter, args []Value) Value {
		tl := asHandle(args[0], "tcplistener").Data.(*tcpListener)
		if tl.ln == nil {
			fail(ErrExternal, "tcpaccept(): call tcplisten first")
		}
		c, err := tl.ln.Accept()
		if err != nil {
			fail(ErrExternal, "tcpaccept(): %s", err)
		}
		return HandleVal("tcp", newTCPStream(c))
	}, `tcpaccept(handle) -> tcp handle
Blocks until a client connects and returns the connection.`)

	reg("udpbind", 2, 2, func(ip *Interpreter, args []Value) Value {
		pc, err := net.ListenPacket("udp", hostPort("udpbind", args, 0))
		if err != nil {
			fail(ErrExternal, "udpbind(): %s", err)
		}
		return HandleVal("udp", &udpSocket{pc: pc})
	}, `udpbind(host, port) -> udp handle
Opens a UDP socket bound to the address.`)

	reg("udpsendto", 4, 4, func(ip *Interpreter, args []Value) Value {
		u := asHandle(args[0], "udp").Data.(*udpSocket)
		dst, err := net.ResolveUDPAddr("udp", hostPort("udpsendto", args, 2))
		if err != nil {
			fail(ErrExternal, "udpsendto(): %s", err)
		}
		n, err := u.pc.WriteTo([]byte(args[1].Display()), dst)
		if err != nil {
			fail(ErrExternal, "udpsendto(): %s", err)
		}
		return Num(float64(n))
	}, `udpsendto(handle, data, host, port) -> number of bytes sent.`)

	reg("udpreceivefrom", 1, 2, func(ip *Interpreter, args []Value) Value {
		u := asHandle(args[0], "udp").Data.(*udpSocket)
		max := 4096
		if len(args) == 2 {
			max = argInt("udpreceivefrom", args, 1)
			if max <= 0 {
				fail(ErrType, "udpreceivefrom() byte count must be positive")
			}
		}
		buf := make([]byte, max)
		n, from, err := u.pc.ReadFrom(buf)
		if err != nil {
			fail(ErrExternal, "udpreceivefrom(): %s", err)
		}
		host, portStr, _ := net.SplitHostPort(from.String())
		port, _ := strconv.Atoi(portStr)
		return Arr([]Value{Str(string(buf[:n])), Str(host), Num(float64(port))})
	}, `udpreceivefrom(handle, max?) -> [data, host, port]
Blocks until a datagram arrives (up to max bytes, default 4096).`)

	reg("udpclose", 1, 1, func(ip *Interpreter, args []Value) Value {
		asHandle(args[0], "udp").Data.(*udpSocket).pc.Close()
		return Bool(true)
	}, `udpclose(handle) -> true`)

	registerListenerBuiltins(ip, reg)
}

// --- HTTP listener area ------------------------------------------------------

// httpExchange is one in-flight request: the serving goroutine parks on done
// until sendresponse answers.
type httpExchange struct {
	w         http.ResponseWriter
	r         *http.Request
	body      string
	done      chan struct{}
	mu        sync.Mutex
	responded bool
}

// httpServer backs the "listener" handle kind.
type httpServer struct {
	addr    string
	srv     *http.Server
	pending chan *httpExchange
	ctx     context.Context
	cancel  context.CancelFunc
}

func (s *httpServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	ex := &httpExchange{w: w, r: r, body: string(b), done: make(chan struct{})}
	select {
	case s.pending <- ex:
		<-ex.done
	case <-s.ctx.Done():
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
	}
}

func (ex *httpExchange) respond(status int, body string, headers *DictObject) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.responded {
		fail(ErrExternal, "sendresponse(): response already sent")
	}
	ex.responded = true
	if headers != nil {
		for _, k := range headers.Keys {
			v, _ := headers.Get(k)
			ex.w.Header().Set(k.Display(), v.Display())
		}
	}
	ex.w.WriteHeader(status)
	ex.w.Write([]byte(body))
	close(ex.done)
}

func registerListenerBuiltins(ip *Interpreter, reg func(string, int, int, NativeFn, string)) {
	reg("bind", 2, 2, func(ip *Interpreter, args []Value) Value {
		ctx, cancel := context.WithCancel(context.Background())
		return HandleVal("listener", &httpServer{
			addr:    hostPort("bind", args, 0),
			pending: make(chan *httpExchange),
			ctx:     ctx,
			cancel:  cancel,
		})
	}, `bind(host, port) -> listener handle
Reserves an address for an HTTP listener; call listen to start serving.`)

	reg("listen", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := asHandle(args[0], "listener").Data.(*httpServer)
		if s.srv != nil {
			fail(ErrExternal, "listen(): already listening on %s", s.addr)
		}
		ln, err := net.Listen("tcp", s.addr)
		if err != nil {
			fail(ErrExternal, "listen(): %s", err)
		}
		s.srv = &http.Server{Handler: s}
		go s.srv.Serve(ln)
		return Bool(true)
	}, `listen(handle) -> true
Starts accepting HTTP requests on the bound address.`)

	reg("accept", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := asHandle(args[0], "listener").Data.(*httpServer)
		select {
		case ex := <-s.pending:
			return HandleVal("request", ex)
		case <-s.ctx.Done():
			return Null
		}
	}, `accept(handle) -> request handle

Blocks until a request arrives and returns it; every accepted request must
be answered with sendresponse. Returns null once shutdown is called.`)

	reg("readrequest", 1, 1, func(ip *Interpreter, args []Value) Value {
		ex := asHandle(args[0], "request").Data.(*httpExchange)
		headers := NewDict()
		for k, vs := range ex.r.Header {
			headers.Set(Str(k), Str(strings.Join(vs, ", ")))
		}
		query := NewDict()
		for k, vs := range ex.r.URL.Query() {
			query.Set(Str(k), Str(strings.Join(vs, ", ")))
		}
		d := NewDict()
		d.Set(Str("method"), Str(ex.r.Method))
		d.Set(Str("path"), Str(ex.r.URL.Path))
		d.Set(Str("query"), DictVal(query))
		d.Set(Str("headers"), DictVal(headers))
		d.Set(Str("body"), Str(ex.body))
		return DictVal(d)
	}, `readrequest(request) -> dictionary

Keys: "method", "path", "query" (dictionary), "headers" (dictionary),
"body".`)

	reg("sendresponse", 2, 4, func(ip *Interpreter, args []Value) Value {
		ex := asHandle(args[0], "request").Data.(*httpExchange)
		status := http.StatusOK
		body := ""
		var headers *DictObject
		switch len(args) {
		case 2:
			body = args[1].Display()
		default:
			status = argInt("sendresponse", args, 1)
			body = args[2].Display()
			if len(args) == 4 {
				headers = argDict("sendresponse", args, 3)
			}
		}
		if status < 100 || status > 599 {
			fail(ErrType, "sendresponse(): invalid status %d", status)
		}
		ex.respond(status, body, headers)
		return Bool(true)
	}, `sendresponse(request, body) -> true
sendresponse(request, status, body, headers?) -> true

Answers a request. With two arguments the status is 200; headers is an
optional dictionary of response headers.`)

	reg("serveforever", 2, 2, func(ip *Interpreter, args []Value) Value {
		s := asHandle(args[0], "listener").Data.(*httpServer)
		handler := args[1]
		if handler.Tag != VTFun && handler.Tag != VTBuiltin {
			fail(ErrType, "serveforever() takes a handler function, got %s", handler.Tag)
		}
		if s.srv == nil {
			fail(ErrExternal, "serveforever(): call listen first")
		}
		var g errgroup.Group
		g.SetLimit(64)
		for {
			select {
			case ex := <-s.pending:
				w := ip.worker()
				g.Go(func() error {
					serveOne(w, handler, ex)
					return nil
				})
			case <-s.ctx.Done():
				g.Wait()
				return Null
			}
		}
	}, `serveforever(handle, handler) -> null

Accepts requests until shutdown, running handler(request) for each on its
own thread. When the handler returns without calling sendresponse, its
return value becomes a 200 response body. A handler error produces a 500
response.`)

	reg("shutdown", 1, 1, func(ip *Interpreter, args []Value) Value {
		s := asHandle(args[0], "listener").Data.(*httpServer)
		s.cancel()
		if s.srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.srv.Shutdown(ctx)
		}
		return Bool(true)
	}, `shutdown(handle) -> true
Stops the listener; accept returns null and serveforever drains and
returns.`)
}

// serveOne runs one request through the script handler, converting an
// unanswered return into a 200 and a raised error into a 500.
func serveOne(w *Interpreter, handler Value, ex *httpExchange) {
	defer func() {
		if r := recover(); r != nil {
			msg := "internal error"
			if re, ok := r.(*RuntimeError); ok {
				msg = re.Msg
			}
			ex.mu.Lock()
			if !ex.responded {
				ex.responded = true
				http.Error(ex.w, msg, http.StatusInternalServerError)
				close(ex.done)
			}
			ex.mu.Unlock()
		}
	}()
	out := w.callValue(handler, []Value{HandleVal("request", ex)}, "")
	ex.mu.Lock()
	unanswered := !ex.responded
	ex.mu.Unlock()
	if unanswered {
		body := ""
		if out.Tag != VTNull {
			body = out.Display()
		}
		ex.respond(http.StatusOK, body, nil)
	}
}

// hostPort joins a host argument at index i with a numeric port at i+1.
func hostPort(name string, args []Value, i int) string {
	host := argStr(name, args, i)
	port := argInt(name, args, i+1)
	if port < 0 || port > 65535 {
		fail(ErrType, "%s(): invalid port %d", name, port)
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
