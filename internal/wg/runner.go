package wg

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner выполняет внешнюю команду и возвращает объединённый вывод
// (stdout+stderr, trimmed). Аргументы всегда вектором, без shell.
type Runner interface {
	Run(name string, args ...string) (string, error)
	RunInput(input string, name string, args ...string) (string, error)
}

type execRunner struct{}

// NewRunner — боевой Runner поверх os/exec.
func NewRunner() Runner { return execRunner{} }

func (execRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return finish(out, err, name, args)
}

func (execRunner) RunInput(input string, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return finish(out, err, name, args)
}

func finish(out []byte, err error, name string, args []string) (string, error) {
	text := strings.TrimSpace(string(out))
	if err != nil {
		// текст инструмента важнее кода возврата; если вывода нет
		// (например, бинарник отсутствует) — берём текст самой ошибки
		if text == "" {
			text = err.Error()
		}
		return text, fmt.Errorf("%w: %s %s: %s", ErrCommandFailed, name, strings.Join(args, " "), text)
	}
	return text, nil
}
