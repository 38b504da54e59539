// precastctl tareas de operación: migraciones, alta de proyectos, emisión de
// tokens de servicio y exportación del reporte PDF de un proyecto.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/precast-api/pkg/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
