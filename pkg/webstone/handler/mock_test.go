//go:build unit

package handler

import (
	"github.com/webstone-io/webstone/pkg/webstone/request"
	"github.com/webstone-io/webstone/pkg/webstone/werr"
)

type fakeGetHandler struct {
	resp  *Response
	err   *werr.Error
	panic interface{}
	calls int
}

func (f *fakeGetHandler) Get(*Context) (*Response, *werr.Error) {
	f.calls++

	if f.panic != nil {
		panic(f.panic)
	}

	return f.resp, f.err
}

type fakePostHandler struct {
	resp  *Response
	err   *werr.Error
	panic interface{}
	body  FormModel
	calls int
}

func (f *fakePostHandler) Post(_ *Context, body FormModel) (*Response, *werr.Error) {
	f.calls++
	f.body = body

	if f.panic != nil {
		panic(f.panic)
	}

	return f.resp, f.err
}

type fakeForm struct {
	Name      string
	bindErr   error
	bindPanic interface{}
}

func (f *fakeForm) BindForm(req *request.Request) error {
	if f.bindPanic != nil {
		panic(f.bindPanic)
	}

	if f.bindErr != nil {
		return f.bindErr
	}

	f.Name = req.Attribute("name")

	return nil
}
