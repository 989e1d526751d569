// Command blockstress exercises the fixedblock allocators from the command
// line: a concurrent allocate/free stress run and a layout report of the
// index widths.
package main

func main() {
	execute()
}
