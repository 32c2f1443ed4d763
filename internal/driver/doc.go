// Package driver installs rendered site configurations into a web server's
// sites-available/sites-enabled layout and drives the server itself.
//
// Sites are stored as <prjname>.conf in the available directory and
// activated with a symlink in the enabled directory. Nginx and Apache share
// that file handling; they differ in the commands used to test the full
// server configuration and to reload it:
//
//	nginx   nginx -t                 systemctl reload nginx   (nginx -s reload)
//	apache  apache2ctl configtest    systemctl reload apache2 (apache2ctl graceful)
//
// # Usage
//
//	drv, err := driver.New("nginx", driver.DefaultPaths("nginx"), executor.NewSystemExecutor())
//	if err != nil {
//	    return err
//	}
//	if err := drv.Install("acme", doc.Content); err != nil {
//	    return err
//	}
//	if err := drv.Enable("acme"); err != nil {
//	    return err
//	}
//	if err := drv.Test(); err != nil {
//	    return err
//	}
//	return drv.Reload()
//
// # Testing
//
// Constructors ending in WithExecutor accept an executor.MockExecutor so no
// server binary is run. MockDriver stands in for a whole driver in CLI tests.
package driver
