package api

import "errors"

func setupUnixHTTP(addr string) (*Server, error) {
	return nil, errors.New("unix sockets are not supported on windows")
}
