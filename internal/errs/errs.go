package errs

import "errors"

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAccepterNotFound = errors.New("accepter not found")
	ErrAccepterRequired = errors.New("accepting a ticket requires an accepter")
	ErrInvalidStatus    = errors.New("invalid ticket status")
	ErrInvalidPriority  = errors.New("invalid ticket priority")
	ErrUnknownOperator  = errors.New("unknown operator")
	ErrNotCreator       = errors.New("only the ticket creator may do this")
	ErrNoResponse       = errors.New("ticket has no response")
	ErrNoSolution       = errors.New("ticket has no solution")
)
