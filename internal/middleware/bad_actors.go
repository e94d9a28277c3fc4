package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Paths probed by vulnerability scanners. Anything matching gets a flat 403
// before it reaches a handler.
var badPaths = []string{
	".env", "DIAGNOSTICS", "ports", "console",
	"php", "mysql", "cgi-bin", "index.jsp",
	"powershell", "favicon.ico", "actuator",
	"geoserver", "goform", "luci", "set_LimitClient_cfg", "wp-login.php",
	"wp-admin", "xmlrpc.php", "config.php", "passwd", "shadow", "backup",
	"bin/bash", "bin/sh", "cmd.exe", "shell", "exec",
	"ftp", "tftp", "smb", "rpcbind", "bconsole", "tomcat", "manager/html",
	"web-console", "login.do",
}

func BlockBadActorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestPath := c.Request.URL.Path

		for _, path := range badPaths {
			if strings.Contains(requestPath, path) {
				c.JSON(403, gin.H{"error": "Forbidden"})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
