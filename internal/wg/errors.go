package wg

import "errors"

// Типизированные ошибки шлюза. HTTP-слой мапит их в problem-ответы,
// текст инструмента сохраняется через обёртку fmt.Errorf("%w: ...").
var (
	ErrCommandFailed = errors.New("wireguard command failed")
	ErrInvalidSubnet = errors.New("invalid subnet CIDR")
	ErrNoFreeAddress = errors.New("no available IPs in subnet")
	ErrKeyGeneration = errors.New("key generation failed")
	ErrSubnetLookup  = errors.New("subnet lookup failed")
)
