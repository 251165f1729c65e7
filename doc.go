/*
Package cseq implements an indexed binary container for nucleotide
sequence data with bit-packed storage and random access by sequence id.

Data Structure Documentation

Container

A container starts with a fixed-size header, followed by one data block
per sequence, an index table and an optional metadata trailer.

	Container layout:
	+--------+---------+-------+---------+-------+---------------------+
	| header | block 1 |  ...  | block n | index | metadata (optional) |
	+--------+---------+-------+---------+-------+---------------------+

	Header (24 bytes, little-endian):
	+-----------+-------------+--------------+-------------+------------------+------------------+
	| magic (4) | version (2) | molecule (1) | profile (1) | index offset (8) | index length (8) |
	+-----------+-------------+--------------+-------------+------------------+------------------+

The index offset and length are written as zero when a session starts
and patched in once the last block is out, so a file without a complete
header is recognisably unfinished.

Block

A block holds one encoded sequence and is self-contained: base count,
exception list and packed payload.

	Block layout:
	+----------------+---------------------+---------------------+--------------+
	| base count (4) | exception count (2) | exceptions (5 each) | packed bytes |
	+----------------+---------------------+---------------------+--------------+

	Exception entry:
	+--------------+------------+
	| position (4) | symbol (1) |
	+--------------+------------+

Under the dense profile the packed payload holds 4 bases per byte, 2
bits each in symbol order (A, C, G, T/U), most significant bits first;
symbols outside that core set are carried in the exception list. Under
the direct profile the payload holds 2 symbols per byte as 4-bit IUPAC
codes, high nibble first, and the exception list is always empty. The
final byte is zero-padded in both profiles.

Index

The index is a flat table of entries in insertion order, one per
sequence, locating its block within the file.

	Index entry:
	+---------------+----------+-----------------+-----------------+----------------+
	| id length (2) | id bytes | byte offset (8) | byte length (8) | base count (4) |
	+---------------+----------+-----------------+-----------------+----------------+

Metadata

Anything between the end of the index and the end of the file is an
optional JSON object with container-level key/value metadata.
*/
package cseq
