package wg

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"
)

// AllocateNext возвращает первый свободный хост-адрес подсети.
// Перебор по возрастанию; сетевой и широковещательный адреса исключены
// (для /31 и /32 перебираются все адреса префикса). Адрес самого
// интерфейса — адресная часть subnetCIDR — пропускается, как и всё из
// used. Чистая функция: одинаковый вход даёт одинаковый результат.
func AllocateNext(subnetCIDR string, used map[string]struct{}) (string, error) {
	_, network, err := net.ParseCIDR(subnetCIDR)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidSubnet, subnetCIDR)
	}
	ip4 := network.IP.To4()
	if ip4 == nil {
		// только IPv4: v6-подсетей на интерфейсе у нас не бывает
		return "", fmt.Errorf("%w: %s (IPv4 only)", ErrInvalidSubnet, subnetCIDR)
	}

	ones, bits := network.Mask.Size()
	base := binary.BigEndian.Uint32(ip4)
	first := base
	last := base + (uint32(1)<<(bits-ones) - 1)
	if ones < 31 {
		first++ // network address
		last--  // broadcast address
	}

	serverIP := strings.Split(subnetCIDR, "/")[0]

	buf := make(net.IP, net.IPv4len)
	for n := first; n >= first && n <= last; n++ {
		binary.BigEndian.PutUint32(buf, n)
		candidate := buf.String()
		if candidate == serverIP {
			continue
		}
		if _, taken := used[candidate]; taken {
			continue
		}
		return candidate, nil
	}
	return "", ErrNoFreeAddress
}
