package calllog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/calllog/internal/logging"
)

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	kwargsType    = reflect.TypeOf(Kwargs(nil))
	kwargSliceTyp = reflect.TypeOf([]Kwarg(nil))
)

// errGoexit is logged when the target ends its goroutine with runtime.Goexit.
var errGoexit = errors.New("goroutine exited")

// receiverParam is the placeholder name of a method expression's receiver.
// Normalize drops it before anything is logged.
const receiverParam = "recv"

// Func wraps a plain function or a bound method value. The result has the
// same type as fn and logs every call.
//
//	add := calllog.Func(add, calllog.Params("x", "y", "api_key"), calllog.Ignore("api_key"))
//
// Use TypeName to prefix entries of a bound method value with its type.
func Func[F any](fn F, opts ...Option) F {
	return wrap(fn, noReceiver, opts)
}

// Method wraps a method expression such as T.Do or (*T).Do. The receiver is
// left out of the logged arguments and its type name prefixes each entry.
func Method[F any](fn F, opts ...Option) F {
	return wrap(fn, boundReceiver, opts)
}

// Auto wraps fn and decides per call whether the first argument is a
// receiver using IsReceiver. Params, when given, must include the receiver.
func Auto[F any](fn F, opts ...Option) F {
	return wrap(fn, detectReceiver, opts)
}

// argRole says how an incoming argument is treated when building the logged
// view of a call.
type argRole int

const (
	rolePositional argRole = iota
	roleContext
	roleKwargs
)

type interceptor struct {
	target   reflect.Value
	ftype    reflect.Type
	name     string
	typeName string
	policy   receiverPolicy
	roles    []argRole
	params   []string
	ignore   []string
	redactor Redactor
	logger   *logging.Logger
	tracer   trace.Tracer
	inst     *instruments
	metrics  *Metrics
	scrubber ValueScrubber
}

func wrap[F any](fn F, policy receiverPolicy, opts []Option) F {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("calllog: target must be a non-nil function, got %T", fn))
	}
	t := v.Type()
	if policy == boundReceiver && t.NumIn() == 0 {
		panic(fmt.Sprintf("calllog: method expression %s has no receiver parameter", t))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &interceptor{
		target:   v,
		ftype:    t,
		name:     o.name,
		typeName: o.typeName,
		policy:   policy,
		roles:    argRoles(t, policy),
		ignore:   append([]string(nil), o.ignore...),
		redactor: DefaultRedactor(),
		logger:   o.logger,
		tracer:   o.tracer,
		inst:     newInstruments(o.meter),
		metrics:  o.metrics,
		scrubber: o.scrubber,
	}
	if c.name == "" {
		c.name = funcName(v)
	}
	if o.redactor != nil {
		c.redactor = *o.redactor
	}
	c.params = c.paramList(o.params)

	return reflect.MakeFunc(t, c.invoke).Interface().(F)
}

func argRoles(t reflect.Type, policy receiverPolicy) []argRole {
	roles := make([]argRole, t.NumIn())
	for i := range roles {
		in := t.In(i)
		switch {
		case i == 0 && policy == boundReceiver:
			roles[i] = rolePositional
		case in == contextType:
			roles[i] = roleContext
		case in == kwargsType, t.IsVariadic() && i == t.NumIn()-1 && in == kwargSliceTyp:
			roles[i] = roleKwargs
		default:
			roles[i] = rolePositional
		}
	}
	return roles
}

// paramList returns the names zipped against positional arguments. Declared
// names are used as given; otherwise arg0, arg1, ... are generated.
func (c *interceptor) paramList(declared []string) []string {
	var names []string
	if c.policy == boundReceiver {
		names = append(names, receiverParam)
	}
	if declared != nil {
		return append(names, declared...)
	}

	n := 0
	for i, role := range c.roles {
		if role != rolePositional || (i == 0 && c.policy == boundReceiver) {
			continue
		}
		names = append(names, "arg"+strconv.Itoa(n))
		n++
	}
	return names
}

// call is the logged view of one invocation.
type call struct {
	ctx       context.Context
	prefix    string
	sanitized *Arguments
}

func (c *interceptor) bind(in []reflect.Value) call {
	ctx := context.Background()
	positional := make([]any, 0, len(in))
	var named Kwargs
	for i, v := range in {
		switch c.roles[i] {
		case roleContext:
			if x, ok := interfaceOf(v).(context.Context); ok && x != nil {
				ctx = x
			}
		case roleKwargs:
			if kw, ok := interfaceOf(v.Convert(kwargsType)).(Kwargs); ok {
				named = append(named, kw...)
			}
		default:
			positional = append(positional, interfaceOf(v))
		}
	}

	receiver := c.policy.detect(positional)
	args := Normalize(c.params, positional, named, receiver)

	prefix := c.name
	switch {
	case c.typeName != "":
		prefix = c.typeName + ":" + c.name
	case receiver && c.policy == boundReceiver:
		prefix = typeNameOf(c.ftype.In(0)) + ":" + c.name
	case receiver:
		prefix = typeNameOf(reflect.TypeOf(positional[0])) + ":" + c.name
	}

	return call{
		ctx:       ctx,
		prefix:    prefix,
		sanitized: c.redactor.Redact(args, c.ignore...),
	}
}

func (c *interceptor) invoke(in []reflect.Value) []reflect.Value {
	cl := c.bind(in)
	logger := c.loggerFor(cl.ctx)

	ctx := cl.ctx
	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, cl.prefix,
			trace.WithAttributes(attribute.String("code.function", c.name)))
	}
	start := time.Now()

	returned := false
	defer func() {
		if returned {
			return
		}
		r := recover()
		if r == nil {
			// runtime.Goexit keeps unwinding after this returns.
			c.failed(ctx, logger, span, start, cl, errGoexit)
			return
		}
		err, ok := r.(error)
		if !ok {
			err = errors.New(fmt.Sprint(r))
		}
		c.failed(ctx, logger, span, start, cl, err)
		panic(r)
	}()

	var out []reflect.Value
	if c.ftype.IsVariadic() {
		out = c.target.CallSlice(in)
	} else {
		out = c.target.Call(in)
	}
	returned = true

	if err := c.errorResult(out); err != nil {
		c.failed(ctx, logger, span, start, cl, err)
		return out
	}
	c.succeeded(ctx, logger, span, start, cl, c.returnValue(out))
	return out
}

func (c *interceptor) succeeded(ctx context.Context, logger *logging.Logger, span trace.Span, start time.Time, cl call, value any) {
	data := NewArguments(2)
	data.Set("args", cl.sanitized)
	data.Set("return_value", value)
	logger.Debug(ctx, cl.prefix+" successfully called "+c.render(data))

	c.observe(ctx, span, start, cl.prefix, nil, "")
}

func (c *interceptor) failed(ctx context.Context, logger *logging.Logger, span trace.Span, start time.Time, cl call, err error) {
	data := NewArguments(2)
	data.Set("args", cl.sanitized)
	text := errorText(err)
	data.Set("error", text)
	logger.Error(ctx, cl.prefix+" encountered an error "+c.render(data))

	c.observe(ctx, span, start, cl.prefix, err, text)
}

func (c *interceptor) render(data *Arguments) string {
	body := data.String()
	if c.scrubber != nil {
		body = c.scrubber.Scrub(body)
	}
	return body
}

// observe ends the span and records metrics. errText is the already
// rendered text of err, so err's methods are not called again.
func (c *interceptor) observe(ctx context.Context, span trace.Span, start time.Time, function string, err error, errText string) {
	d := time.Since(start)
	outcome := OutcomeSucceeded
	if err != nil {
		outcome = OutcomeFailed
	}

	if span != nil {
		if err != nil {
			span.AddEvent("exception", trace.WithAttributes(
				attribute.String("exception.type", fmt.Sprintf("%T", err)),
				attribute.String("exception.message", errText),
			))
			span.SetStatus(codes.Error, errText)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
	c.inst.record(ctx, function, outcome, d)
	c.metrics.observe(function, outcome, d)
}

// errorResult returns the trailing error result when it is non-nil.
func (c *interceptor) errorResult(out []reflect.Value) error {
	n := c.ftype.NumOut()
	if n == 0 || c.ftype.Out(n-1) != errorType {
		return nil
	}
	err, _ := interfaceOf(out[n-1]).(error)
	return err
}

// returnValue is None without results, the value for one result, and a
// tuple for several. A trailing error result is not part of it.
func (c *interceptor) returnValue(out []reflect.Value) any {
	n := c.ftype.NumOut()
	if n > 0 && c.ftype.Out(n-1) == errorType {
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return interfaceOf(out[0])
	default:
		values := make(tuple, len(out))
		for i, v := range out {
			values[i] = interfaceOf(v)
		}
		return values
	}
}

func (c *interceptor) loggerFor(ctx context.Context) *logging.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.FromContext(ctx)
}

// funcName returns the bare name of a function value: the last element of
// its runtime name, without the package path, receiver or "-fm" suffix.
func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return v.Type().String()
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
