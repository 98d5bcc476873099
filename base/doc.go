/*
Package base provides base data structures and functions for the experiment tools.

The base data structures and functions include:

* Random Generator

* Delimited Line Reading and Escaping
*/
package base
