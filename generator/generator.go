package generator

import (
	"bytes"
	"encoding/binary"
	"net"
)

// snowflake node ids are 10 bits wide.
const maxNode = 1 << 10

func IDbyIP(ip string) uint32 {
	var id uint32
	binary.Read(bytes.NewBuffer(net.ParseIP(ip).To4()), binary.BigEndian, &id)
	return id
}

// NodeID maps an IPv4 address to a run id node, so that hosts on one /22
// never mint the same run id. Unparsable addresses map to 0.
func NodeID(ip string) int64 {
	return int64(IDbyIP(ip) % maxNode)
}

// LocalIP is the first non-loopback IPv4 address of this host, or "" when
// there is none.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if v4 := ipnet.IP.To4(); v4 != nil {
				return v4.String()
			}
		}
	}

	return ""
}
