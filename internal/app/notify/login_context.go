package notify

import (
	"fmt"
	"net"
	"time"

	ua "github.com/mileusna/useragent"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"

	"github.com/bloggerhq/blogger/internal/domain/model"
)

const unknown = "Unknown"

// ContextResolver turns raw request metadata into the login context used by
// security alerts. GeoIP is optional; without a database everything resolves
// to "Unknown".
type ContextResolver struct {
	geo *geoip2.Reader
}

func NewContextResolver(geoDBPath string, log *zap.Logger) *ContextResolver {
	r := &ContextResolver{}
	if geoDBPath == "" {
		return r
	}
	reader, err := geoip2.Open(geoDBPath)
	if err != nil {
		log.Warn("geoip database unavailable, login locations will be Unknown",
			zap.String("path", geoDBPath),
			zap.Error(err),
		)
		return r
	}
	r.geo = reader
	return r
}

func (r *ContextResolver) Resolve(ip, userAgent string) model.LoginContext {
	return model.LoginContext{
		Time:     time.Now(),
		IP:       ip,
		Location: r.locate(ip),
		Device:   device(userAgent),
	}
}

func (r *ContextResolver) locate(ip string) string {
	if r.geo == nil {
		return unknown + ", " + unknown
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return unknown + ", " + unknown
	}
	city, err := r.geo.City(parsed)
	if err != nil || city == nil {
		return unknown + ", " + unknown
	}
	name := city.City.Names["en"]
	if name == "" {
		name = unknown
	}
	region := unknown
	if len(city.Subdivisions) > 0 {
		if n := city.Subdivisions[0].Names["en"]; n != "" {
			region = n
		}
	}
	return name + ", " + region
}

func device(userAgent string) string {
	parsed := ua.Parse(userAgent)
	browser := parsed.Name
	if browser == "" {
		browser = unknown
	}
	os := parsed.OS
	if os == "" {
		os = unknown
	}
	return fmt.Sprintf("%s on %s", browser, os)
}

func (r *ContextResolver) Close() {
	if r.geo != nil {
		_ = r.geo.Close()
	}
}
