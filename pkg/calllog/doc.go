// Package calllog wraps functions so every call is logged with its arguments
// and outcome.
//
// # Overview
//
// A wrapped function has the same type as the original. On each call the
// wrapper binds the arguments to parameter names, redacts sensitive names,
// calls the original with the untouched arguments and emits exactly one entry:
//
//	foo successfully called {'args': {'x': 1, 'y': 2, 'api_key': '**SECRET**'}, 'return_value': 3}
//	foo encountered an error {'args': {'x': 'a', 'y': 2, 'api_key': '**SECRET**'}, 'error': 'boom'}
//
// Successful calls are logged at debug level, failed calls at error level.
// A call fails when its trailing error result is non-nil or when it panics;
// the error is returned and the panic re-raised unchanged. A target that
// calls runtime.Goexit is logged as failed with 'error': 'goroutine exited'.
// Error and String methods that panic while an entry is rendered are caught,
// as fmt does, and never escape the wrapper.
//
// # Usage
//
// Go keeps no parameter names at run time, so declare them:
//
//	add := calllog.Func(add,
//	    calllog.Params("x", "y", "api_key"),
//	    calllog.Ignore("api_key"))
//
// Method expressions log the receiver type and leave the receiver out:
//
//	charge := calllog.Method((*Billing).Charge, calllog.Params("amount", "email"))
//	charge(b, 10, "a@example.com") // Billing:Charge successfully called ...
//
// Arguments supplied by name travel in a Kwargs (or ...Kwarg) parameter and
// are overlaid on the positional ones. A context.Context parameter is never
// logged; it carries the logger (logging.WithLogger) and trace correlation.
//
// # Redaction
//
// Names in DefaultSecretKeys (api_key, access_token, email) and in Ignore are
// replaced by Sentinel. A Redactor adds keys on top of DefaultSecretKeys; it
// cannot remove them. Redaction works on a copy; the wrapped function
// always receives the caller's values.
package calllog
