// Package config stores siterender settings and the sites it renders for,
// as YAML at ~/.config/siterender/config.yaml (or $SITERENDER_CONFIG).
//
// Example config.yaml:
//
//	driver: nginx
//	template_dir: /etc/siterender/templates
//	defaults:
//	  server_domain: localhost
//	  env_link: env
//	  webdav: true
//	  sites_base: /srv
//	sites:
//	  acme:
//	    prjname: acme
//	    project_dir: /srv/acme
//	    server_domain: acme.example.com
//	    webdav: false
//	    installed: true
//	    enabled: true
//	    checksum: 5b0e2f1c9a7d3e44
//	    created_at: 2026-02-01T10:00:00Z
//
// A site only needs prjname; every other value falls back to defaults,
// with project_dir defaulting to <sites_base>/<prjname>. Config.Context turns
// a site into the template.Context its templates are rendered with.
//
// Config is not safe for concurrent use.
package config
